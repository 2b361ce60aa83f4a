package validate

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// IgnoreRule absorbs schema findings whose message contains a known
// pattern. The {ns} placeholder in the pattern expands to the document
// namespace wrapped in braces, the way schema engines spell element names.
type IgnoreRule struct {
	Name            string `yaml:"name"`
	Reason          string `yaml:"reason"`
	Contains        string `yaml:"contains"`
	OnlyWhenNoDatas bool   `yaml:"onlyWhenNoDatas"`
}

// Matches reports whether the rule absorbs the finding in this context.
func (r IgnoreRule) Matches(f Finding, ctx Context) bool {
	if r.OnlyWhenNoDatas && ctx.HasDatas {
		return false
	}
	pattern := strings.ReplaceAll(r.Contains, "{ns}", ctx.Namespace)
	return strings.Contains(f.Message, pattern)
}

var ignoreRules = mustLoadRules()

func mustLoadRules() []IgnoreRule {
	var doc struct {
		Rules []IgnoreRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(rulesYAML, &doc); err != nil {
		panic(fmt.Sprintf("decode ignore rules: %v", err))
	}
	return doc.Rules
}

// IgnoreRules returns the embedded rule list.
func IgnoreRules() []IgnoreRule {
	return ignoreRules
}

// Partition splits findings into ignored and failing per the rule list.
func Partition(findings []Finding, ctx Context) Report {
	var report Report
	for _, f := range findings {
		if matchesAny(f, ctx) {
			report.Ignored = append(report.Ignored, f)
		} else {
			report.Failures = append(report.Failures, f)
		}
	}
	return report
}

func matchesAny(f Finding, ctx Context) bool {
	for _, rule := range ignoreRules {
		if rule.Matches(f, ctx) {
			return true
		}
	}
	return false
}

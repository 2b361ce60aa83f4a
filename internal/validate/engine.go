package validate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taskmodel/hmstconv/internal/hmst"
	"github.com/taskmodel/hmstconv/internal/schemacache"
)

// XmllintEngine validates documents against the published XSD with the
// xmllint binary. The schema comes from the cache, so only the first run
// on a machine touches the network.
type XmllintEngine struct {
	Schemas   *schemacache.Cache
	SchemaURL string
}

// NewXmllintEngine validates against the v7 schema location.
func NewXmllintEngine(schemas *schemacache.Cache) *XmllintEngine {
	return &XmllintEngine{Schemas: schemas, SchemaURL: hmst.SchemaLocation}
}

// Validate implements SchemaEngine. A missing binary or an unreachable
// schema is an engine error, which callers treat as "engine unavailable"
// and degrade from; findings are only ever document problems.
func (e *XmllintEngine) Validate(ctx context.Context, document []byte) ([]Finding, error) {
	if _, err := exec.LookPath("xmllint"); err != nil {
		return nil, fmt.Errorf("xmllint not available: %w", err)
	}
	if _, err := e.Schemas.Get(ctx, e.SchemaURL); err != nil {
		return nil, err
	}

	docPath := filepath.Join(os.TempDir(), "hmstconv_validate.hmst")
	if err := os.WriteFile(docPath, document, 0o644); err != nil {
		return nil, fmt.Errorf("stage document: %w", err)
	}
	defer os.Remove(docPath)

	cmd := exec.CommandContext(ctx, "xmllint", "--noout", "--schema", e.Schemas.Path, docPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		findings := parseXmllintOutput(stderr.String())
		if len(findings) == 0 {
			return nil, fmt.Errorf("xmllint: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return findings, nil
	}
	return nil, nil
}

// parseXmllintOutput extracts one finding per validity-error line. The
// trailing "fails to validate" summary line carries no finding.
func parseXmllintOutput(stderr string) []Finding {
	const marker = "Schemas validity error : "

	var findings []Finding
	for _, line := range strings.Split(stderr, "\n") {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		findings = append(findings, Finding{
			Line:    lineNumber(line),
			Message: line[idx+len(marker):],
		})
	}
	return findings
}

// lineNumber pulls the line out of the "path:line: ..." prefix.
func lineNumber(line string) int {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 3 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}

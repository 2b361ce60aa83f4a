// Package validate checks generated documents against the v7 schema.
//
// Full validation runs an external schema engine and partitions its
// findings with a data-driven ignore list; when no engine is available the
// structural checks cover the document envelope.
package validate

import "fmt"

// Finding is one schema violation reported by an engine.
type Finding struct {
	Line    int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("Line %d: %s", f.Line, f.Message)
}

// Context carries the document facts the ignore rules condition on.
type Context struct {
	Namespace string
	HasDatas  bool
}

// Report is the outcome of one full validation: findings the ignore list
// absorbed and findings that remain failures.
type Report struct {
	Ignored  []Finding
	Failures []Finding
}

// OK reports whether the document passed, ignored findings included.
func (r Report) OK() bool { return len(r.Failures) == 0 }

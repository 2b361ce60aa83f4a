package jsonform

import (
	"encoding/json"

	"github.com/taskmodel/hmstconv/internal/ir"
)

// taskDump is the verbose IR form: every field present, no compaction.
// Used by the debug direction only.
type taskDump struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Duration    ir.Duration    `json:"duration"`
	Optional    bool           `json:"optional"`
	Iterative   ir.Iterative   `json:"iterative"`
	Refs        []ir.Ref       `json:"refs"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Operator    *operatorDump  `json:"operator,omitempty"`
}

type operatorDump struct {
	Type     string `json:"type"`
	Children []any  `json:"children"`
}

// DumpIR renders the full IR tree for debugging.
func DumpIR(doc *ir.Document) ([]byte, error) {
	if doc.Empty() {
		return []byte("{}"), nil
	}
	return json.MarshalIndent(dumpTask(doc.Root), "", "  ")
}

func dumpTask(t *ir.Task) *taskDump {
	refs := t.Refs
	if refs == nil {
		refs = []ir.Ref{}
	}
	out := &taskDump{
		ID:          t.ID,
		Label:       t.Label,
		Type:        t.Type,
		Description: t.Description,
		Duration:    t.Duration,
		Optional:    t.Optional,
		Iterative:   t.Iterative,
		Refs:        refs,
		Metadata:    t.Metadata,
	}
	if t.Operator != nil {
		out.Operator = dumpOperator(t.Operator)
	}
	return out
}

func dumpOperator(op *ir.Operator) *operatorDump {
	out := &operatorDump{Type: op.Type, Children: []any{}}
	for _, child := range op.Children {
		switch n := child.(type) {
		case *ir.Task:
			out.Children = append(out.Children, dumpTask(n))
		case *ir.Operator:
			out.Children = append(out.Children, dumpOperator(n))
		}
	}
	return out
}

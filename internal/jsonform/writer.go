package jsonform

import (
	"encoding/json"

	"github.com/taskmodel/hmstconv/internal/ir"
)

// taskJSON mirrors the compact field order of the simplified form, label
// first.
type taskJSON struct {
	Label     string        `json:"label"`
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type,omitempty"`
	Optional  bool          `json:"optional,omitempty"`
	Iterative *ir.Iterative `json:"iterative,omitempty"`
	Duration  *ir.Duration  `json:"duration,omitempty"`
	Refs      []ir.Ref      `json:"refs,omitempty"`
	Operator  *operatorJSON `json:"operator,omitempty"`
	Datas     []dataJSON    `json:"datas,omitempty"`
	Errors    []errorJSON   `json:"errors,omitempty"`
}

type operatorJSON struct {
	Type     string `json:"type"`
	Children []any  `json:"children,omitempty"`
}

type dataJSON struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Label    string       `json:"label,omitempty"`
	Position *ir.Position `json:"position,omitempty"`
	Links    []ir.Link    `json:"links,omitempty"`
}

type errorJSON struct {
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Position    *ir.Position `json:"position,omitempty"`
	NodeID      string       `json:"nodeid,omitempty"`
}

// Write renders the compact JSON form of a document, honoring the ir
// compact-output contract field by field. An empty document renders as an
// empty object.
func Write(doc *ir.Document) ([]byte, error) {
	if doc.Empty() {
		return []byte("{}"), nil
	}
	root := compactTask(doc.Root, true)
	for _, d := range doc.Datas {
		root.Datas = append(root.Datas, dataJSON{
			ID:       d.ID,
			Type:     d.Type,
			Label:    d.Label,
			Position: d.Position,
			Links:    d.Links,
		})
	}
	for _, e := range doc.Errors {
		root.Errors = append(root.Errors, errorJSON{
			Type:        e.Type,
			Description: e.Description,
			Position:    e.Position,
			NodeID:      e.NodeID,
		})
	}
	return json.MarshalIndent(root, "", "  ")
}

func compactTask(t *ir.Task, isRoot bool) *taskJSON {
	emit := ir.CompactFieldsFor(t, isRoot)
	out := &taskJSON{Label: t.Label}
	if emit.ID {
		out.ID = t.ID
	}
	if emit.Type {
		out.Type = t.Type
	}
	if emit.Optional {
		out.Optional = true
	}
	if emit.Iterative {
		it := t.Iterative
		out.Iterative = &it
	}
	if emit.Duration {
		d := t.Duration
		out.Duration = &d
	}
	if emit.Refs {
		out.Refs = t.Refs
	}
	if t.Operator != nil {
		out.Operator = compactOperator(t.Operator)
	}
	return out
}

func compactOperator(op *ir.Operator) *operatorJSON {
	out := &operatorJSON{Type: op.Type}
	for _, child := range op.Children {
		switch n := child.(type) {
		case *ir.Task:
			out.Children = append(out.Children, compactTask(n, false))
		case *ir.Operator:
			out.Children = append(out.Children, compactOperator(n))
		}
	}
	return out
}

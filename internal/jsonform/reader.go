package jsonform

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/taskmodel/hmstconv/internal/ir"
)

// Parse decodes the simplified JSON form and builds the IR document.
func Parse(data []byte) (*ir.Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return ParseObject(raw), nil
}

// ParseObject builds the IR document from an already-decoded object. The
// object is the root task; datas and errors ride along as top-level keys.
// Defaults fill every missing field, so building cannot fail.
func ParseObject(raw map[string]any) *ir.Document {
	r := &reader{counters: &ir.Counters{}}
	doc := &ir.Document{Root: r.parseTask(raw, true)}
	if list, ok := raw["datas"].([]any); ok {
		doc.Datas = parseDatas(list)
	}
	if list, ok := raw["errors"].([]any); ok {
		doc.Errors = parseErrors(list)
	}
	return doc
}

// reader threads the id counter through one parse; the counter is shared
// across the whole traversal and never reset per subtree.
type reader struct {
	counters *ir.Counters
}

func (r *reader) parseTask(obj map[string]any, isRoot bool) *ir.Task {
	t := ir.NewTask()

	if v, ok := obj["id"]; ok {
		t.ID = asString(v)
	} else {
		t.ID = r.counters.NextTaskID()
		t.AutoID = true
	}

	t.Label = "Unnamed Task"
	if v, ok := obj["label"]; ok {
		t.Label = asString(v)
	}

	// Explicit type always wins; otherwise the JSON-path default applies,
	// independent of whether the node has children.
	if v, ok := obj["type"]; ok {
		t.Type = asString(v)
	} else {
		t.Type = ir.SimplifiedDefaultType(isRoot)
	}

	t.Description = asString(obj["description"])
	t.Optional = asBool(obj["optional"])

	if v, ok := obj["iterative"]; ok {
		t.Iterative = asIterative(v, t.Iterative)
	}

	if d, ok := obj["duration"].(map[string]any); ok {
		t.Duration = ir.Duration{
			Min:  asFloat(d["min"]),
			Max:  asFloat(d["max"]),
			Unit: stringOr(d["unit"], "s"),
		}
	}

	if l, ok := obj["loop"].(map[string]any); ok {
		t.Loop = ir.Loop{
			MinIterations: asInt(l["minIterations"]),
			MaxIterations: asInt(l["maxIterations"]),
		}
	}

	if m, ok := obj["metadata"].(map[string]any); ok {
		t.Metadata = m
	}

	if refs, ok := obj["refs"].([]any); ok {
		t.Refs = parseRefs(refs)
	}

	if op, ok := obj["operator"].(map[string]any); ok {
		t.Operator = r.parseOperator(op)
	}

	return t
}

func (r *reader) parseOperator(obj map[string]any) *ir.Operator {
	opType := asString(obj["type"])
	if opType == "" {
		opType = asString(obj["operator"])
	}
	if opType == "" {
		opType = ir.DefaultOperatorType
	}

	op := &ir.Operator{Type: opType}
	children, _ := obj["children"].([]any)
	for _, child := range children {
		if isOperatorNode(child) {
			op.Children = append(op.Children, r.parseOperator(child.(map[string]any)))
			continue
		}
		if task, ok := child.(map[string]any); ok {
			op.Children = append(op.Children, r.parseTask(task, false))
		}
	}
	return op
}

// isOperatorNode applies the structural classification, computed exactly
// once at this boundary: an operator entry is a mapping with a children
// key, no label key, and either a type or operator key. The JSON form has
// no explicit node-kind marker.
func isOperatorNode(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := obj["children"]; !ok {
		return false
	}
	if _, ok := obj["label"]; ok {
		return false
	}
	_, hasType := obj["type"]
	_, hasOp := obj["operator"]
	return hasType || hasOp
}

// parseRefs normalizes ref entries: a bare string is shorthand for a data
// ref with no link type; object entries need an id and get every field
// coerced to a string.
func parseRefs(list []any) []ir.Ref {
	var refs []ir.Ref
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			refs = append(refs, ir.Ref{ID: v, Target: "data", LinkType: ""})
		case map[string]any:
			if _, ok := v["id"]; !ok {
				continue
			}
			refs = append(refs, ir.Ref{
				ID:       asString(v["id"]),
				Target:   stringOr(v["target"], "data"),
				LinkType: asString(v["linkType"]),
			})
		}
	}
	return refs
}

func parseDatas(list []any) []ir.Data {
	var datas []ir.Data
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		d := ir.Data{
			ID:   asString(obj["id"]),
			Type: stringOr(obj["type"], ir.DefaultDataKind),
		}
		d.Label = asString(obj["label"])
		if d.Label == "" {
			d.Label = asString(obj["description"])
		}
		d.Position = parsePosition(obj["position"])
		if links, ok := obj["links"].([]any); ok {
			for _, l := range links {
				lm, ok := l.(map[string]any)
				if !ok {
					continue
				}
				d.Links = append(d.Links, ir.Link{
					TaskID:   asString(lm["taskId"]),
					LinkType: asString(lm["linkType"]),
				})
			}
		}
		datas = append(datas, d)
	}
	return datas
}

func parseErrors(list []any) []ir.ErrorNote {
	var notes []ir.ErrorNote
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		notes = append(notes, ir.ErrorNote{
			Type:        stringOr(obj["type"], ir.ErrorPhenotype),
			Description: asString(obj["description"]),
			Position:    parsePosition(obj["position"]),
			NodeID:      asString(obj["nodeid"]),
		})
	}
	return notes
}

func parsePosition(v any) *ir.Position {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &ir.Position{X: asInt(obj["x"]), Y: asInt(obj["y"])}
}

func asIterative(v any, def ir.Iterative) ir.Iterative {
	switch n := v.(type) {
	case bool:
		return ir.Iterative{Bool: n}
	case float64:
		// Only whole non-negative counts qualify; anything else keeps
		// the default.
		if n >= 0 && n == math.Trunc(n) {
			return ir.Repeat(int(n))
		}
	}
	return def
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func stringOr(v any, def string) string {
	if s := asString(v); s != "" {
		return s
	}
	return def
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

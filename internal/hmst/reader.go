package hmst

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/taskmodel/hmstconv/internal/ir"
)

// Parse decodes a v7 document into the IR. A well-formed document without a
// nodes section, or with an empty one, yields an empty IR document rather
// than an error.
func Parse(data []byte) (*ir.Document, error) {
	xml := etree.NewDocument()
	if err := xml.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	root := xml.Root()
	if root == nil {
		return nil, fmt.Errorf("decode xml: document has no root element")
	}

	r := &reader{counters: &ir.Counters{}}
	doc := &ir.Document{}

	if nodes := root.SelectElement("nodes"); nodes != nil {
		if first := nodes.SelectElement("task"); first != nil {
			doc.Root = r.parseTask(first)
		}
	}

	if datas := root.SelectElement("datas"); datas != nil {
		for _, el := range datas.SelectElements("data") {
			doc.Datas = append(doc.Datas, parseData(el))
		}
	}

	if errs := root.SelectElement("errors"); errs != nil {
		for _, el := range errs.SelectElements("phenotype") {
			doc.Errors = append(doc.Errors, parseErrorNote(el, ir.ErrorPhenotype, "phenotypetonode"))
		}
		for _, el := range errs.SelectElements("genotype") {
			doc.Errors = append(doc.Errors, parseErrorNote(el, "slip", "genotypetonode"))
		}
	}

	return doc, nil
}

type reader struct {
	counters *ir.Counters
}

func (r *reader) parseTask(el *etree.Element) *ir.Task {
	t := ir.NewTask()

	t.ID = el.SelectAttrValue("id", "")
	if t.ID == "" {
		t.ID = r.counters.NextTaskID()
		t.AutoID = true
	}
	t.Type = el.SelectAttrValue("type", ir.TypeAbstract)

	t.Label = fmt.Sprintf("Task %s", t.ID)
	if desc := el.SelectElement("description"); desc != nil && desc.Text() != "" {
		t.Label = desc.Text()
	}

	r.parseSimulation(el, t)

	if op := el.SelectElement("operator"); op != nil {
		t.Operator = r.parseOperator(op)
	}

	return t
}

// parseSimulation reads the simulation property category under
// coreproperties. Unknown or absent properties leave the defaults alone.
func (r *reader) parseSimulation(el *etree.Element, t *ir.Task) {
	category := el.FindElement("coreproperties/categories/category[@name='simulation']")
	if category == nil {
		return
	}

	props := map[string]string{}
	for _, p := range category.SelectElements("property") {
		props[p.SelectAttrValue("name", "")] = p.SelectAttrValue("value", "")
	}

	t.Optional = strings.EqualFold(props["optional"], "true")
	t.Iterative = parseIterative(props, "iterative")
	t.Duration = ir.Duration{
		Min:  parseSeconds(props["minexectime"]),
		Max:  parseSeconds(props["maxexectime"]),
		Unit: "s",
	}
}

// parseIterative maps the document property back to the tri-state marker:
// "*" is the wildcard, "0" means no repetition, other digits are an exact
// count, and true/false pass through. Anything else keeps the wildcard.
func parseIterative(props map[string]string, key string) ir.Iterative {
	raw, ok := props[key]
	if !ok {
		return ir.Wildcard()
	}
	switch strings.ToLower(raw) {
	case "*":
		return ir.Wildcard()
	case "0":
		return ir.NoRepeat()
	case "true":
		return ir.Iterative{Bool: true}
	case "false":
		return ir.NoRepeat()
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return ir.Repeat(n)
	}
	return ir.Wildcard()
}

func parseSeconds(raw string) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func (r *reader) parseOperator(el *etree.Element) *ir.Operator {
	op := &ir.Operator{Type: el.SelectAttrValue("type", ir.DefaultOperatorType)}

	// Child order is execution order: walk the element children as written
	// instead of grouping tasks and operators.
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "task":
			op.Children = append(op.Children, r.parseTask(child))
		case "operator":
			op.Children = append(op.Children, r.parseOperator(child))
		}
	}
	return op
}

func parseData(el *etree.Element) ir.Data {
	d := ir.Data{
		ID:   el.SelectAttrValue("id", ""),
		Type: el.SelectAttrValue("type", ir.DefaultDataKind),
	}
	if desc := el.SelectElement("description"); desc != nil {
		d.Label = desc.Text()
	}
	d.Position = parsePosition(el)

	for _, link := range el.SelectElements("link") {
		entry := ir.Link{
			TaskID:   link.SelectAttrValue("sourceid", ""),
			LinkType: link.SelectAttrValue("type", ""),
		}
		if entry.TaskID != "" || entry.LinkType != "" {
			d.Links = append(d.Links, entry)
		}
	}
	return d
}

func parseErrorNote(el *etree.Element, defaultType, nodeTag string) ir.ErrorNote {
	note := ir.ErrorNote{
		Type:        el.SelectAttrValue("type", defaultType),
		Description: el.SelectAttrValue("name", ""),
		Position:    parsePosition(el),
	}
	if toNode := el.SelectElement(nodeTag); toNode != nil {
		note.NodeID = toNode.SelectAttrValue("nodeid", "")
	}
	return note
}

func parsePosition(el *etree.Element) *ir.Position {
	pos := el.FindElement("graphics/graphic/position")
	if pos == nil {
		return nil
	}
	x, _ := strconv.Atoi(pos.SelectAttrValue("x", "0"))
	y, _ := strconv.Atoi(pos.SelectAttrValue("y", "0"))
	return &ir.Position{X: x, Y: y}
}

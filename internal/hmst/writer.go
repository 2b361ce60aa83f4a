package hmst

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/taskmodel/hmstconv/internal/ir"
)

// Writer renders an IR document as a v7 file. A Writer is single-use: the
// id counters it carries run across one document.
type Writer struct {
	counters *ir.Counters
	layout   Layout
}

func NewWriter() *Writer {
	return &Writer{counters: &ir.Counters{}, layout: DefaultLayout()}
}

// NewWriterWithLayout renders with a caller-supplied child layout.
func NewWriterWithLayout(layout Layout) *Writer {
	return &Writer{counters: &ir.Counters{}, layout: layout}
}

// Write renders the document with every section the schema requires, in
// schema order. Text content is NFC-normalized on the way out.
func (w *Writer) Write(doc *ir.Document) (string, error) {
	if doc.Empty() {
		return "", fmt.Errorf("document has no task to write")
	}

	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := xml.CreateElement(RootTag)
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xmlns:xsi", XSINamespace)
	root.CreateAttr("name", nfc(doc.Root.Label))
	root.CreateAttr("version", Version)
	root.CreateAttr("xsi:schemaLocation", Namespace+" "+SchemaLocation)

	nodes := root.CreateElement("nodes")
	nodes.AddChild(w.taskElement(doc.Root))

	w.writeDatas(root.CreateElement("datas"), doc)
	w.writeErrors(root.CreateElement("errors"), doc.Errors)

	root.CreateElement("security")
	root.CreateElement("parameters")
	root.CreateElement("instancevalues")
	root.CreateElement("parametersdefinitions")

	main := root.CreateElement("mainproperties")
	tm := main.CreateElement("property")
	tm.CreateAttr("name", "timemanagement")
	tm.CreateAttr("type", "fr.irit.ics.circus.hamsters.api.TimeManagement")
	tm.CreateAttr("value", "NORMAL")

	xml.Indent(4)
	return xml.WriteToString()
}

func (w *Writer) taskElement(t *ir.Task) *etree.Element {
	el := etree.NewElement("task")
	el.CreateAttr("id", t.ID)
	el.CreateAttr("type", t.Type)
	el.CreateAttr("copy", "false")
	el.CreateAttr("knowledgeproceduraltype", "")

	graphic := el.CreateElement("graphics").CreateElement("graphic")
	graphic.CreateAttr("folded", "false")
	writePosition(graphic, 0, 0)

	if t.Operator != nil {
		el.AddChild(w.operatorElement(t.Operator))
	}

	el.CreateElement("description").SetText(nfc(t.Label))
	el.CreateElement("xlproperties")

	categories := el.CreateElement("coreproperties").CreateElement("categories")

	sim := categories.CreateElement("category")
	sim.CreateAttr("name", "simulation")
	writeProperty(sim, "duration", boolValue(t.Duration.IsSet()))
	writeProperty(sim, "iterative", iterativeValue(t.Iterative))
	writeProperty(sim, "optional", boolValue(t.Optional))
	writeProperty(sim, "minexectime", formatSeconds(t.Duration.Min))
	writeProperty(sim, "maxexectime", formatSeconds(t.Duration.Max))

	auth := categories.CreateElement("category")
	auth.CreateAttr("name", "authority")
	writeTypedProperty(auth, "responsibility", "java.lang.Boolean", "false")
	writeTypedProperty(auth, "authority", "java.lang.Boolean", "false")

	crit := categories.CreateElement("category")
	crit.CreateAttr("name", "criticality")
	writeTypedProperty(crit, "criticality", "java.lang.Integer", "0")

	return el
}

func (w *Writer) operatorElement(op *ir.Operator) *etree.Element {
	el := etree.NewElement("operator")
	el.CreateAttr("id", w.counters.NextOperatorID())
	el.CreateAttr("type", op.Type)
	el.CreateAttr("knowledgeproceduraltype", "")

	graphic := el.CreateElement("graphics").CreateElement("graphic")
	writePosition(graphic, 0, 0)

	for i, child := range op.Children {
		x, y := w.layout.ChildPosition(i)
		var childEl *etree.Element
		switch n := child.(type) {
		case *ir.Task:
			childEl = w.taskElement(n)
		case *ir.Operator:
			childEl = w.operatorElement(n)
		default:
			continue
		}
		setPosition(childEl, x, y)
		el.AddChild(childEl)
	}
	return el
}

// writeDatas renders the datas section. Task refs targeting a data object
// become link entries on it, appended after any authored links; a ref
// without a link type falls back to the default for the data kind.
func (w *Writer) writeDatas(datas *etree.Element, doc *ir.Document) {
	ids := make([]string, len(doc.Datas))
	for i, d := range doc.Datas {
		ids[i] = d.ID
		if ids[i] == "" {
			ids[i] = w.counters.NextDataID()
		}
	}

	derived := collectTaskLinks(doc.Root)

	for i, d := range doc.Datas {
		links := append([]ir.Link{}, d.Links...)
		for _, entry := range derived[ids[i]] {
			if entry.LinkType == "" {
				entry.LinkType = ir.DefaultLinkType(d.Type)
			}
			links = append(links, entry)
		}
		w.dataElement(datas, d, ids[i], links)
	}
}

// collectTaskLinks maps each referenced data id to the tasks that point at
// it, in document order.
func collectTaskLinks(root *ir.Task) map[string][]ir.Link {
	out := map[string][]ir.Link{}
	ir.WalkTasks(root, func(t *ir.Task) {
		for _, ref := range t.Refs {
			if ref.Target != "" && ref.Target != "data" {
				continue
			}
			if ref.ID == "" {
				continue
			}
			out[ref.ID] = append(out[ref.ID], ir.Link{TaskID: t.ID, LinkType: ref.LinkType})
		}
	})
	return out
}

func (w *Writer) dataElement(datas *etree.Element, d ir.Data, id string, links []ir.Link) {
	el := datas.CreateElement("data")
	el.CreateAttr("type", d.Type)
	el.CreateAttr("id", id)

	el.CreateElement("description").SetText(nfc(d.Label))
	el.CreateElement("properties")

	for _, link := range links {
		linkEl := el.CreateElement("link")
		linkEl.CreateAttr("feature", "none")
		linkEl.CreateAttr("sourceid", link.TaskID)
		if link.LinkType != "" {
			linkEl.CreateAttr("type", link.LinkType)
		}
		linkEl.CreateAttr("value", "")
		linkEl.CreateElement("points")
	}

	graphic := el.CreateElement("graphics").CreateElement("graphic")
	x, y := 0, 0
	if d.Position != nil {
		x, y = d.Position.X, d.Position.Y
	}
	writePosition(graphic, x, y)
}

func (w *Writer) writeErrors(errs *etree.Element, notes []ir.ErrorNote) {
	for _, note := range notes {
		id := w.counters.NextErrorID()
		desc := note.Description
		if desc == "" {
			desc = fmt.Sprintf("Error %s", id)
		}

		if note.IsPhenotype() || note.Type == "" {
			el := errs.CreateElement("phenotype")
			el.CreateAttr("name", nfc(desc))
			el.CreateAttr("type", ir.ErrorPhenotype)
			el.CreateAttr("id", id)
			writeNotePosition(el, note.Position)

			toNode := el.CreateElement("phenotypetonode")
			toNode.CreateAttr("nodeid", note.NodeID)
			toNode.CreateElement("points")
			continue
		}

		el := errs.CreateElement("genotype")
		el.CreateAttr("gemstype", "Undefined")
		el.CreateAttr("name", nfc(desc))
		el.CreateAttr("type", note.Type)
		el.CreateAttr("id", id)
		writeNotePosition(el, note.Position)

		if note.NodeID != "" || note.Type == "kbm" || note.Type == "rbm" {
			toNode := el.CreateElement("genotypetonode")
			toNode.CreateAttr("nodeid", note.NodeID)
			toNode.CreateElement("points")
		}
	}
}

func writeNotePosition(el *etree.Element, pos *ir.Position) {
	graphic := el.CreateElement("graphics").CreateElement("graphic")
	x, y := 0, 0
	if pos != nil {
		x, y = pos.X, pos.Y
	}
	writePosition(graphic, x, y)
}

func writeProperty(category *etree.Element, name, value string) {
	p := category.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("value", value)
}

func writeTypedProperty(category *etree.Element, name, typ, value string) {
	p := category.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("type", typ)
	p.CreateAttr("value", value)
}

func writePosition(graphic *etree.Element, x, y int) {
	pos := graphic.CreateElement("position")
	pos.CreateAttr("x", strconv.Itoa(x))
	pos.CreateAttr("y", strconv.Itoa(y))
}

// setPosition rewrites the already-rendered position of a child element.
func setPosition(el *etree.Element, x, y int) {
	pos := el.FindElement("graphics/graphic/position")
	if pos == nil {
		return
	}
	pos.CreateAttr("x", strconv.Itoa(x))
	pos.CreateAttr("y", strconv.Itoa(y))
}

// iterativeValue maps the tri-state marker to the document property: the
// wildcard is "*", an exact count is its decimal form, no repetition is "0".
func iterativeValue(it ir.Iterative) string {
	if it.IsCount {
		return strconv.Itoa(it.Count)
	}
	if it.Bool {
		return "*"
	}
	return "0"
}

func boolValue(b bool) string {
	return strconv.FormatBool(b)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

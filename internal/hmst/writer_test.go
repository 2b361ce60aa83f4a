package hmst

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmodel/hmstconv/internal/ir"
)

func loginDocument() *ir.Document {
	username := ir.NewTask()
	username.ID = "t1"
	username.Type = ir.TypeUser
	username.Label = "Enter username"
	username.Optional = true
	username.Duration = ir.Duration{Min: 1.5, Max: 4, Unit: "s"}
	username.Iterative = ir.NoRepeat()
	username.Refs = []ir.Ref{{ID: "a0", Target: "data"}}

	password := ir.NewTask()
	password.ID = "t2"
	password.Type = ir.TypeInputOutput
	password.Label = "Enter password"
	password.Iterative = ir.Repeat(3)

	root := ir.NewTask()
	root.ID = "t0"
	root.Type = ir.TypeGoal
	root.Label = "Login procedure"
	root.Operator = &ir.Operator{Type: "sequence", Children: []ir.Node{username, password}}

	return &ir.Document{
		Root: root,
		Datas: []ir.Data{
			{ID: "a0", Type: "deviceinputdod", Label: "keyboard", Position: &ir.Position{X: 10, Y: 20}},
		},
		Errors: []ir.ErrorNote{
			{Type: "humanerror", Description: "wrong password", NodeID: "t2"},
			{Type: "kbm", Description: "memory lapse"},
		},
	}
}

func mustParse(t *testing.T, out string) *etree.Element {
	t.Helper()
	xml := etree.NewDocument()
	require.NoError(t, xml.ReadFromString(out))
	require.NotNil(t, xml.Root())
	return xml.Root()
}

func TestWriteRejectsEmptyDocument(t *testing.T) {
	_, err := NewWriter().Write(&ir.Document{})
	require.Error(t, err)
}

func TestWriteRootEnvelope(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)
	assert.Equal(t, RootTag, root.Tag)
	assert.Equal(t, Namespace, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "Login procedure", root.SelectAttrValue("name", ""))
	assert.Equal(t, Version, root.SelectAttrValue("version", ""))
	assert.Equal(t, Namespace+" "+SchemaLocation, root.SelectAttrValue("xsi:schemaLocation", ""))

	var tags []string
	for _, child := range root.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{
		"nodes", "datas", "errors", "security", "parameters",
		"instancevalues", "parametersdefinitions", "mainproperties",
	}, tags)

	tm := root.FindElement("mainproperties/property")
	require.NotNil(t, tm)
	assert.Equal(t, "timemanagement", tm.SelectAttrValue("name", ""))
	assert.Equal(t, "NORMAL", tm.SelectAttrValue("value", ""))
}

func TestWriteTaskElement(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)
	task := root.FindElement("nodes/task")
	require.NotNil(t, task)
	assert.Equal(t, "t0", task.SelectAttrValue("id", ""))
	assert.Equal(t, "goal", task.SelectAttrValue("type", ""))
	assert.Equal(t, "false", task.SelectAttrValue("copy", ""))
	require.NotNil(t, task.SelectAttr("knowledgeproceduraltype"))

	desc := task.SelectElement("description")
	require.NotNil(t, desc)
	assert.Equal(t, "Login procedure", desc.Text())

	graphic := task.FindElement("graphics/graphic")
	require.NotNil(t, graphic)
	assert.Equal(t, "false", graphic.SelectAttrValue("folded", ""))
}

func TestWriteSimulationProperties(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)
	username := root.FindElement("nodes/task/operator/task")
	require.NotNil(t, username)

	props := map[string]string{}
	for _, p := range username.FindElements("coreproperties/categories/category[@name='simulation']/property") {
		props[p.SelectAttrValue("name", "")] = p.SelectAttrValue("value", "")
	}
	assert.Equal(t, map[string]string{
		"duration":    "true",
		"iterative":   "0",
		"optional":    "true",
		"minexectime": "1.5",
		"maxexectime": "4",
	}, props)
}

func TestWriteIterativeValues(t *testing.T) {
	assert.Equal(t, "*", iterativeValue(ir.Wildcard()))
	assert.Equal(t, "0", iterativeValue(ir.NoRepeat()))
	assert.Equal(t, "3", iterativeValue(ir.Repeat(3)))
}

func TestWriteOperatorIDsAndLayout(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)
	op := root.FindElement("nodes/task/operator")
	require.NotNil(t, op)
	assert.Equal(t, "o0", op.SelectAttrValue("id", ""))
	assert.Equal(t, "sequence", op.SelectAttrValue("type", ""))

	tasks := op.SelectElements("task")
	require.Len(t, tasks, 2)
	first := tasks[0].FindElement("graphics/graphic/position")
	second := tasks[1].FindElement("graphics/graphic/position")
	assert.Equal(t, "0", first.SelectAttrValue("x", ""))
	assert.Equal(t, "200", first.SelectAttrValue("y", ""))
	assert.Equal(t, "200", second.SelectAttrValue("x", ""))
	assert.Equal(t, "200", second.SelectAttrValue("y", ""))
}

func TestWriteDerivesDataLinksFromRefs(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)
	data := root.FindElement("datas/data")
	require.NotNil(t, data)
	assert.Equal(t, "a0", data.SelectAttrValue("id", ""))
	assert.Equal(t, "keyboard", data.SelectElement("description").Text())

	links := data.SelectElements("link")
	require.Len(t, links, 1)
	assert.Equal(t, "t1", links[0].SelectAttrValue("sourceid", ""))
	assert.Equal(t, ir.LinkTypeUses, links[0].SelectAttrValue("type", ""), "device kinds default to USES_TYPE")
	require.NotNil(t, links[0].SelectElement("points"))

	pos := data.FindElement("graphics/graphic/position")
	assert.Equal(t, "10", pos.SelectAttrValue("x", ""))
	assert.Equal(t, "20", pos.SelectAttrValue("y", ""))
}

func TestWriteRefLinkTypeOverridesDefault(t *testing.T) {
	doc := loginDocument()
	doc.Root.Operator.Children[0].(*ir.Task).Refs[0].LinkType = "TEST_TYPE"

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	root := mustParse(t, out)
	link := root.FindElement("datas/data/link")
	require.NotNil(t, link)
	assert.Equal(t, "TEST_TYPE", link.SelectAttrValue("type", ""))
}

func TestWriteGeneratesMissingDataIDs(t *testing.T) {
	doc := loginDocument()
	doc.Datas = append(doc.Datas, ir.Data{Type: "objectdod", Label: "credentials"})

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	root := mustParse(t, out)
	datas := root.FindElements("datas/data")
	require.Len(t, datas, 2)
	assert.Equal(t, "a0", datas[1].SelectAttrValue("id", ""), "generated ids fill the gaps")
}

func TestWriteErrorSections(t *testing.T) {
	out, err := NewWriter().Write(loginDocument())
	require.NoError(t, err)

	root := mustParse(t, out)

	pheno := root.FindElement("errors/phenotype")
	require.NotNil(t, pheno)
	assert.Equal(t, "wrong password", pheno.SelectAttrValue("name", ""))
	assert.Equal(t, "humanerror", pheno.SelectAttrValue("type", ""))
	assert.Equal(t, "e0", pheno.SelectAttrValue("id", ""))
	toNode := pheno.SelectElement("phenotypetonode")
	require.NotNil(t, toNode)
	assert.Equal(t, "t2", toNode.SelectAttrValue("nodeid", ""))

	geno := root.FindElement("errors/genotype")
	require.NotNil(t, geno)
	assert.Equal(t, "Undefined", geno.SelectAttrValue("gemstype", ""))
	assert.Equal(t, "kbm", geno.SelectAttrValue("type", ""))
	assert.Equal(t, "e1", geno.SelectAttrValue("id", ""))
	require.NotNil(t, geno.SelectElement("genotypetonode"), "kbm genotypes keep a node anchor")
}

func TestWriteGenotypeWithoutAnchorOmitsNodeLink(t *testing.T) {
	doc := loginDocument()
	doc.Errors = []ir.ErrorNote{{Type: "slip", Description: "misclick"}}

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	root := mustParse(t, out)
	geno := root.FindElement("errors/genotype")
	require.NotNil(t, geno)
	assert.Nil(t, geno.SelectElement("genotypetonode"))
}

func TestWriteErrorDescriptionFallback(t *testing.T) {
	doc := loginDocument()
	doc.Errors = []ir.ErrorNote{{Type: "humanerror"}}

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	root := mustParse(t, out)
	pheno := root.FindElement("errors/phenotype")
	require.NotNil(t, pheno)
	assert.Equal(t, "Error e0", pheno.SelectAttrValue("name", ""))
}

func TestWriteNormalizesTextToNFC(t *testing.T) {
	doc := loginDocument()
	doc.Root.Label = "proce\u0301dure" // decomposed accent

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	root := mustParse(t, out)
	assert.Equal(t, "proc\u00e9dure", root.SelectAttrValue("name", ""))
	assert.Equal(t, "proc\u00e9dure", root.FindElement("nodes/task/description").Text())
}

func TestWriteParseRoundTrip(t *testing.T) {
	doc := loginDocument()

	out, err := NewWriter().Write(doc)
	require.NoError(t, err)

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	require.False(t, back.Empty())

	assert.Equal(t, doc.Root.ID, back.Root.ID)
	assert.Equal(t, doc.Root.Type, back.Root.Type)
	assert.Equal(t, doc.Root.Label, back.Root.Label)

	username := back.Root.Operator.Children[0].(*ir.Task)
	assert.True(t, username.Optional)
	assert.Equal(t, ir.NoRepeat(), username.Iterative)
	assert.Equal(t, ir.Duration{Min: 1.5, Max: 4, Unit: "s"}, username.Duration)

	password := back.Root.Operator.Children[1].(*ir.Task)
	assert.Equal(t, ir.Repeat(3), password.Iterative)
}

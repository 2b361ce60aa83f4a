package jsonform

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmodel/hmstconv/internal/ir"
)

func TestDumpIREmptyDocument(t *testing.T) {
	out, err := DumpIR(&ir.Document{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestDumpIRCarriesEveryField(t *testing.T) {
	doc, err := Parse([]byte(loginInput))
	require.NoError(t, err)

	out, err := DumpIR(doc)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "login_ir", out)
}

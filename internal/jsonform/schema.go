package jsonform

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed task_schema.json
var taskSchemaJSON []byte

var taskSchema = mustCompileTaskSchema()

func mustCompileTaskSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("task_schema.json", bytes.NewReader(taskSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add task schema resource: %v", err))
	}
	s, err := c.Compile("task_schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile task schema: %v", err))
	}
	return s
}

// ValidateInput checks a decoded simplified-form document against the
// recognized-field schema. The error message carries up to three leaf
// causes so a misplaced key is reported by path, not as a bare failure.
func ValidateInput(doc any) error {
	err := taskSchema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	causes := leafCauses(ve, nil)
	if len(causes) > 3 {
		causes = append(causes[:3], "...")
	}
	return fmt.Errorf("%s", strings.Join(causes, "; "))
}

// leafCauses collects the innermost violations, which carry the concrete
// instance paths; intermediate anyOf/allOf frames only repeat them.
func leafCauses(ve *jsonschema.ValidationError, out []string) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", loc, ve.Message))
	}
	for _, c := range ve.Causes {
		out = leafCauses(c, out)
	}
	return out
}

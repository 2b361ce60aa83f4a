// Package convert wires the readers, writers, and validators into the
// three supported conversion directions.
package convert

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/taskmodel/hmstconv/internal/hmst"
	"github.com/taskmodel/hmstconv/internal/jsonform"
	"github.com/taskmodel/hmstconv/internal/validate"
)

// Format names a document representation.
type Format string

const (
	// FormatJSON is the simplified JSON task form.
	FormatJSON Format = "json"

	// FormatHMST is the v7 XML document format.
	FormatHMST Format = "hmst"

	// FormatIR is the verbose debug dump of the intermediate form.
	FormatIR Format = "ir"
)

// Options tune one conversion run.
type Options struct {
	// SkipValidation bypasses the simplified-form input contract.
	SkipValidation bool

	// Engine, when set, validates generated documents against the
	// published XSD. Without one the structural checks run instead.
	Engine validate.SchemaEngine

	// Log receives diagnostic notices, such as the fallback from full to
	// structural validation. Nil discards them.
	Log func(format string, args ...any)
}

func (o Options) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log(format, args...)
	}
}

// Result carries the conversion artifact. On an external schema violation
// the artifact is still present alongside the error so it can be written
// and inspected.
type Result struct {
	Output  []byte
	Ignored []validate.Finding
}

// Convert dispatches on the direction.
func Convert(ctx context.Context, from, to Format, input []byte, opts Options) (Result, error) {
	switch {
	case from == FormatJSON && to == FormatHMST:
		return JSONToDocument(ctx, input, opts)
	case from == FormatJSON && to == FormatIR:
		return JSONToIR(input, opts)
	case from == FormatHMST && to == FormatJSON:
		return DocumentToJSON(input, opts)
	}
	return Result{}, newError(ErrCodeUnsupportedDirection, "no conversion from %s to %s", from, to)
}

// JSONToDocument converts the simplified form to a v7 document and
// validates the result. Validation failures on the generated document keep
// the artifact in the result.
func JSONToDocument(ctx context.Context, input []byte, opts Options) (Result, error) {
	obj, err := decodeInput(input, opts.SkipValidation)
	if err != nil {
		return Result{}, err
	}
	doc := jsonform.ParseObject(obj)

	out, err := hmst.NewWriter().Write(doc)
	if err != nil {
		return Result{}, wrapError(ErrCodeMalformedInput, err, "cannot render document")
	}
	artifact := []byte(out)

	vctx := validate.Context{Namespace: hmst.Namespace, HasDatas: len(doc.Datas) > 0}
	report, err := validateDocument(ctx, artifact, vctx, opts)
	if err != nil {
		return Result{Output: artifact}, err
	}
	if !report.OK() {
		return Result{Output: artifact, Ignored: report.Ignored},
			newError(ErrCodeExternalSchemaViolation, "%s", summarize(report.Failures))
	}
	return Result{Output: artifact, Ignored: report.Ignored}, nil
}

// JSONToIR converts the simplified form to the verbose IR dump.
func JSONToIR(input []byte, opts Options) (Result, error) {
	obj, err := decodeInput(input, opts.SkipValidation)
	if err != nil {
		return Result{}, err
	}
	out, err := jsonform.DumpIR(jsonform.ParseObject(obj))
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out}, nil
}

// DocumentToJSON converts a v7 document to the compact simplified form.
// The output is checked against the input contract so it can feed the
// reverse direction; an empty document skips that check, since an empty
// object is a valid round-trip of a document without tasks.
func DocumentToJSON(input []byte, opts Options) (Result, error) {
	doc, err := hmst.Parse(input)
	if err != nil {
		return Result{}, wrapError(ErrCodeMalformedInput, err, "Invalid XML")
	}

	out, err := jsonform.Write(doc)
	if err != nil {
		return Result{}, err
	}

	if !opts.SkipValidation && !doc.Empty() {
		var decoded any
		if err := json.Unmarshal(out, &decoded); err != nil {
			return Result{}, wrapError(ErrCodeMalformedInput, err, "cannot decode generated JSON")
		}
		if err := jsonform.ValidateInput(decoded); err != nil {
			return Result{}, wrapError(ErrCodeSchemaViolation, err, "JSON schema validation failed")
		}
	}
	return Result{Output: out}, nil
}

// decodeInput decodes and, unless skipped, contract-checks the simplified
// form. The document must be a JSON object.
func decodeInput(input []byte, skipValidation bool) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(input, &decoded); err != nil {
		return nil, wrapError(ErrCodeMalformedInput, err, "Invalid JSON")
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, newError(ErrCodeMalformedInput, "Invalid JSON - document must be an object")
	}
	if !skipValidation {
		if err := jsonform.ValidateInput(decoded); err != nil {
			return nil, wrapError(ErrCodeSchemaViolation, err, "JSON schema validation failed")
		}
	}
	return obj, nil
}

// validateDocument runs the engine when one is configured and falls back
// to the structural checks when it is absent or cannot run.
func validateDocument(ctx context.Context, document []byte, vctx validate.Context, opts Options) (validate.Report, error) {
	if opts.Engine != nil {
		report, err := validate.Full(ctx, opts.Engine, document, vctx)
		if err == nil {
			return report, nil
		}
		opts.logf("Schema validation unavailable (%v), falling back to structural checks", err)
	}
	if err := validate.Structural(document); err != nil {
		return validate.Report{}, wrapError(ErrCodeExternalSchemaViolation, err, "schema validation failed")
	}
	return validate.Report{}, nil
}

// summarize folds the first failures into one line.
func summarize(failures []validate.Finding) string {
	limit := len(failures)
	if limit > 3 {
		limit = 3
	}
	parts := make([]string, 0, limit)
	for _, f := range failures[:limit] {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

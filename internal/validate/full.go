package validate

import "context"

// SchemaEngine validates a document against the published XSD and reports
// every violation it finds. An engine error means the engine could not run,
// not that the document failed.
type SchemaEngine interface {
	Validate(ctx context.Context, document []byte) ([]Finding, error)
}

// Full runs the engine and partitions its findings with the ignore list.
func Full(ctx context.Context, engine SchemaEngine, document []byte, vctx Context) (Report, error) {
	findings, err := engine.Validate(ctx, document)
	if err != nil {
		return Report{}, err
	}
	return Partition(findings, vctx), nil
}

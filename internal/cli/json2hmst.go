package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmodel/hmstconv/internal/convert"
	"github.com/taskmodel/hmstconv/internal/schemacache"
	"github.com/taskmodel/hmstconv/internal/validate"
)

// JSON2HmstOptions holds flags for the json2hmst command.
type JSON2HmstOptions struct {
	*RootOptions
	Output     string // output file path
	To         string // target representation: hmst or ir
	NoValidate bool   // skip the input contract check
}

// NewJSON2HmstCommand creates the json2hmst command.
func NewJSON2HmstCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JSON2HmstOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "json2hmst <input.json>",
		Short: "Convert simplified JSON to a HAMSTERS v7 document",
		Long: `Convert a simplified JSON task model to a HAMSTERS v7 .hmst document.

The input is checked against the task-model contract, the generated
document against the published XSD when a schema engine is available, and
structurally otherwise. With --to ir the command dumps the intermediate
form instead of rendering a document.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON2Hmst(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.To, "to", "hmst", "target representation (hmst|ir)")
	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip JSON schema validation")

	return cmd
}

func runJSON2Hmst(opts *JSON2HmstOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var target convert.Format
	var suffix string
	switch opts.To {
	case "hmst":
		target, suffix = convert.FormatHMST, ".hmst"
	case "ir":
		target, suffix = convert.FormatIR, "_ir.json"
	default:
		_ = formatter.Fail(string(convert.ErrCodeUnsupportedDirection), "Unknown format")
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown target %q", opts.To))
	}

	data, err := readInput(inputPath)
	if err != nil {
		return failConversion(formatter, err)
	}

	convOpts := convert.Options{SkipValidation: opts.NoValidate, Log: formatter.VerboseLog}
	if target == convert.FormatHMST {
		convOpts.Engine = validate.NewXmllintEngine(schemacache.Default())
	}

	formatter.VerboseLog("Converting %s to %s", inputPath, opts.To)
	result, convErr := convert.Convert(cmd.Context(), convert.FormatJSON, target, data, convOpts)

	outputPath, pathErr := resolveOutputPath(opts.Output, inputPath, suffix)
	if pathErr != nil {
		return failConversion(formatter, pathErr)
	}

	// A document that failed external validation is still written, so the
	// rejected artifact can be inspected.
	if len(result.Output) > 0 {
		if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
			return failConversion(formatter, fmt.Errorf("write output: %w", err))
		}
	}

	if convErr != nil {
		return failConversion(formatter, convErr)
	}
	return formatter.OK(outputPath, result.Ignored)
}

// resolveOutputPath picks the artifact location: the explicit flag value,
// or generated/<stem><suffix> next to the working directory. Parent
// directories are created either way.
func resolveOutputPath(explicit, inputPath, suffix string) (string, error) {
	path := explicit
	if path == "" {
		stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		path = filepath.Join("generated", stem+suffix)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	return path, nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmodel/hmstconv/internal/convert"
)

// Hmst2JSONOptions holds flags for the hmst2json command.
type Hmst2JSONOptions struct {
	*RootOptions
	Output     string // output file path
	NoValidate bool   // skip the output contract check
}

// NewHmst2JSONCommand creates the hmst2json command.
func NewHmst2JSONCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &Hmst2JSONOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hmst2json <input.hmst>",
		Short: "Convert a HAMSTERS v7 document to simplified JSON",
		Long: `Convert a HAMSTERS v7 .hmst document to the compact simplified JSON
form. The result is checked against the task-model contract so it can
feed json2hmst unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHmst2JSON(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip JSON schema validation")

	return cmd
}

func runHmst2JSON(opts *Hmst2JSONOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := readInput(inputPath)
	if err != nil {
		return failConversion(formatter, err)
	}

	formatter.VerboseLog("Converting %s to simplified JSON", inputPath)
	result, err := convert.DocumentToJSON(data, convert.Options{SkipValidation: opts.NoValidate})
	if err != nil {
		return failConversion(formatter, err)
	}

	outputPath, err := resolveOutputPath(opts.Output, inputPath, ".json")
	if err != nil {
		return failConversion(formatter, err)
	}
	if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
		return failConversion(formatter, fmt.Errorf("write output: %w", err))
	}

	return formatter.OK(outputPath, nil)
}

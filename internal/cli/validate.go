package cli

import (
	"github.com/spf13/cobra"

	"github.com/taskmodel/hmstconv/internal/validate"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <input.hmst>",
		Short: "Check the structure of a HAMSTERS v7 document",
		Long: `Run the structural checks on a .hmst document: well-formed XML, the
v7 root element and namespace, the mandatory root attributes, and at
least one content section.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, inputPath string, cmd *cobra.Command) error {
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

	if err := validate.Structural(data); err != nil {
		return failConversion(formatter, err)
	}
	return formatter.OKMessage("Document is structurally valid")
}

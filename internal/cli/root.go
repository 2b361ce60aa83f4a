package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmodel/hmstconv/internal/convert"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hmstconv CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hmstconv",
		Short: "Convert between HAMSTERS v7 documents and simplified JSON",
		Long:  "Transcode HAMSTERS v7 task models: simplified JSON to .hmst documents and back, with schema validation on both sides.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewJSON2HmstCommand(opts))
	cmd.AddCommand(NewHmst2JSONCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// readInput loads a source file, mapping a missing path to the not-found
// conversion error so every command fails the same way.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &convert.ConversionError{Code: convert.ErrCodeNotFound, Message: "File not found"}
		}
		return nil, err
	}
	return data, nil
}

// failConversion renders a conversion failure and turns it into the
// matching exit code.
func failConversion(formatter *OutputFormatter, err error) error {
	code := convert.CodeOf(err)
	if code == "" {
		code = "CONVERSION_FAILED"
	}
	_ = formatter.Fail(string(code), err.Error())
	return NewExitError(ExitFailure, err.Error())
}

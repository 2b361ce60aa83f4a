package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/taskmodel/hmstconv/internal/validate"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Conversion or validation failure
	ExitCommandError = 2 // Command error (bad flags, unknown target format)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Output  string    `json:"output,omitempty"`  // artifact path on success
	Ignored []string  `json:"ignored,omitempty"` // schema findings absorbed by the ignore list
	Error   *CLIError `json:"error,omitempty"`   // error details
	TraceID string    `json:"trace_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK reports a written artifact in the configured format.
func (f *OutputFormatter) OK(outputPath string, ignored []validate.Finding) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Output:  outputPath,
			Ignored: findingStrings(ignored),
			TraceID: uuid.NewString(),
		})
	}

	f.reportIgnored(ignored)
	fmt.Fprintf(f.Writer, "OK - Output: %s\n", outputPath)
	return nil
}

// OKMessage reports a success that produced no artifact.
func (f *OutputFormatter) OKMessage(message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			TraceID: uuid.NewString(),
		})
	}
	fmt.Fprintf(f.Writer, "OK - %s\n", message)
	return nil
}

// Fail reports a failure in the configured format.
func (f *OutputFormatter) Fail(code, message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: code, Message: message},
			TraceID: uuid.NewString(),
		})
	}
	fmt.Fprintf(f.Writer, "FAIL: %s\n", message)
	return nil
}

// reportIgnored summarizes absorbed schema findings, first five spelled
// out.
func (f *OutputFormatter) reportIgnored(ignored []validate.Finding) {
	if len(ignored) == 0 {
		return
	}
	fmt.Fprintf(f.Writer, "Schema validation: %d rule(s) violated but ignored\n", len(ignored))
	limit := len(ignored)
	if limit > 5 {
		limit = 5
	}
	for _, finding := range ignored[:limit] {
		fmt.Fprintf(f.Writer, "  - %s\n", finding)
	}
	if len(ignored) > limit {
		fmt.Fprintf(f.Writer, "  - ... and %d more\n", len(ignored)-limit)
	}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func findingStrings(findings []validate.Finding) []string {
	if len(findings) == 0 {
		return nil
	}
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.String()
	}
	return out
}

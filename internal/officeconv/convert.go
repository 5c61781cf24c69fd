package officeconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ConversionError reports a failed spreadsheet to PDF conversion.
type ConversionError struct {
	// Path is the spreadsheet being converted.
	Path string

	// Reason is a short description of what failed.
	Reason string

	// Stderr is the converter's error output, if any.
	Stderr string

	// Err is the underlying cause.
	Err error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("failed to convert %s to PDF: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the conversion was stopped by its deadline.
func (e *ConversionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Converter runs the office suite headless to turn a spreadsheet into a PDF.
type Converter struct {
	// Executable is the office suite binary.
	Executable string

	// Timeout bounds a single conversion.
	Timeout time.Duration
}

// New returns a Converter for an executable.
func New(executable string, timeout time.Duration) *Converter {
	return &Converter{Executable: executable, Timeout: timeout}
}

// Convert writes <dir>/<stem>.pdf next to the spreadsheet and returns its
// path.
//
// PARAMETERS:
//   - ctx: Cancels the subprocess together with the Timeout.
//   - xlsxPath: The spreadsheet to convert.
//
// RETURNS:
//   - The path of the produced PDF.
//   - A *ConversionError on start failure, non-zero exit, timeout, or when
//     the expected PDF is missing afterwards.
func (c *Converter) Convert(ctx context.Context, xlsxPath string) (string, error) {
	if c.Executable == "" {
		return "", &ConversionError{Path: xlsxPath, Reason: "no converter configured", Err: ErrConverterNotFound}
	}

	absPath, err := filepath.Abs(xlsxPath)
	if err != nil {
		return "", &ConversionError{Path: xlsxPath, Reason: "invalid path", Err: err}
	}
	outDir := filepath.Dir(absPath)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Executable, Args(outDir, absPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Do not wait on grandchildren holding the pipes once the deadline hits.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		convErr := &ConversionError{
			Path:   xlsxPath,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			convErr.Reason = fmt.Sprintf("converter did not finish within %s", c.Timeout)
			convErr.Err = ctx.Err()
		case errors.As(err, &exitErr):
			convErr.Reason = fmt.Sprintf("converter exited with status %d", exitErr.ExitCode())
		default:
			convErr.Reason = "cannot run converter"
		}
		return "", convErr
	}

	pdfPath := PDFPath(absPath)
	if _, err := os.Stat(pdfPath); err != nil {
		return "", &ConversionError{
			Path:   xlsxPath,
			Reason: "converter produced no PDF",
			Stderr: strings.TrimSpace(stdout.String() + "\n" + stderr.String()),
			Err:    err,
		}
	}

	return pdfPath, nil
}

// Args returns the converter command line for one file.
func Args(outDir, file string) []string {
	return []string{"--headless", "--convert-to", "pdf", "--outdir", outDir, file}
}

// PDFPath returns the file the converter writes for a spreadsheet: same
// directory, same stem, .pdf extension.
func PDFPath(xlsxPath string) string {
	return strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".pdf"
}

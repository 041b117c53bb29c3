package parsererror

import "fmt"

// SheetNotFoundError indicates that a workbook contains no usable sheet.
// It is fatal to the file it names, never to the whole run.
type SheetNotFoundError struct {
	FilePath string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("no usable sheet found in %s", e.FilePath)
}

// WorkbookError indicates that a workbook container could not be opened or read.
type WorkbookError struct {
	FilePath string
	Err      error
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("failed to read workbook %s: %v", e.FilePath, e.Err)
}

func (e *WorkbookError) Unwrap() error {
	return e.Err
}

// ParseError represents an error while parsing a single field.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a precondition failure for a whole run, such as
// a missing exchange-rate reference file.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

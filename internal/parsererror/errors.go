// Package parsererror holds the typed errors shared by readers, adapters,
// the rule store and the classifier.
package parsererror

import "fmt"

// ParseError is a cell that could not be converted to its field type.
type ParseError struct {
	Platform string
	Field    string
	Value    string
	Row      int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.Platform, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is a record that violates a model invariant.
type ValidationError struct {
	Subject string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s.%s: %s", e.Subject, e.Field, e.Reason)
}

// CategorizationError is a classification rule that cannot be evaluated,
// such as a malformed regular expression.
type CategorizationError struct {
	Priority int
	Pattern  string
	Err      error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("rule (priority %d) pattern '%s' unusable: %v",
		e.Priority, e.Pattern, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError means a table does not have the shape a reader or
// adapter expects.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// DataExtractionError means the bytes of a file could not be turned into
// a table at all.
type DataExtractionError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *DataExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data extraction failed in file '%s': %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("data extraction failed in file '%s': %s", e.FilePath, e.Reason)
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

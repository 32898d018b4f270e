package loaders

import "fmt"

// ParseError represents an error during parsing of one statement field.
type ParseError struct {
	Loader string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Loader, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where the input does not conform to
// the expected format for a specific loader.
type InvalidFormatError struct {
	Loader         string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s (expected %s)", e.Loader, e.Msg, e.ExpectedFormat)
}

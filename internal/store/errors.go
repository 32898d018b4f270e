package store

import "fmt"

// UsageError reports an invalid argument supplied by the caller: an
// unparseable date, an unknown period or sort column, an inverted date range,
// or a missing required field. Usage errors are never retried and map to
// HTTP 400 at the API boundary; storage failures are returned as plain
// wrapped errors and map to 500.
type UsageError struct {
	Field  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func usageErrorf(field, format string, args ...interface{}) error {
	return &UsageError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

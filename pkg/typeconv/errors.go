package typeconv

import "fmt"

// Conversion operations for error classification.
const (
	// OpDecimal is a coercion to arbitrary-precision decimal.
	OpDecimal = "to decimal"
	// OpQuote is a quoting transform.
	OpQuote = "quote"
)

// ConvertError reports a failed conversion with the operation and the
// offending input.
type ConvertError struct {
	// Op is the conversion operation that failed.
	Op string

	// Input is the rendered form of the value that could not be converted.
	Input string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConvertError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot %s %q: %v", e.Op, e.Input, e.Err)
	}
	return fmt.Sprintf("cannot %s %q", e.Op, e.Input)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ConvertError) Unwrap() error {
	return e.Err
}

// Is implements error equality checking for errors.Is.
func (e *ConvertError) Is(target error) bool {
	t, ok := target.(*ConvertError)
	if !ok {
		return false
	}
	return e.Op == t.Op
}

package document

import "fmt"

// ParseError wraps a format-specific syntax error.
type ParseError struct {
	Format DocumentFormat
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedValueError is returned when a value cannot be represented in
// the target format (e.g. null in TOML).
type UnsupportedValueError struct {
	Format DocumentFormat
	Path   string
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("%s cannot store value at %q: %s", e.Format, e.Path, e.Reason)
}

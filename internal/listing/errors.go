package listing

import "fmt"

// ValidationError describes a malformed URL parameter. It is always recovered
// locally by falling back to the default for that parameter.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid listing parameters: %v", e.Problems)
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// QueryError wraps a failed store query.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("listing query %s: %v", e.Op, e.Err) }

func (e *QueryError) Unwrap() error { return e.Err }

// LoadError is returned by the initial loader when the seed cannot be built.
// There is no previous state to fall back to, so it is shown as a page message.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load listing: %v", e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the user-facing text for the page-level error block.
func (e *LoadError) Message() string {
	return "We couldn't load open positions right now. Please try again in a moment."
}

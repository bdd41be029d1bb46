package export

import "fmt"

// ValidationError reports a request that cannot be exported as given
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PackagingError reports a failure while assembling the archive
type PackagingError struct {
	Op  string
	Err error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging failed (%s): %v", e.Op, e.Err)
}

func (e *PackagingError) Unwrap() error {
	return e.Err
}

package job

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound indicates the job is not in the cache.
	ErrJobNotFound = errors.New("job not found")
)

// Toast copy shown after a mutation.
const (
	ToastSuccess = "On it."
	ToastFailure = "Doh, that didn't work."
)

// ValidationError blocks a request before any network call. Field names the
// input the user should fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Toast returns the user-facing outcome of a mutation.
func Toast(err error) string {
	if err == nil {
		return ToastSuccess
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return ToastFailure
}

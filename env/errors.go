package env

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrNotPresent reports that the host has no variable by that name.
	ErrNotPresent = errors.New("environment variable not found")

	// ErrInvalidName reports a variable name containing a nul byte; such a
	// lookup is rejected locally and never crosses the boundary.
	ErrInvalidName = errors.New("environment variable name contains nul byte")
)

// NotUnicodeError reports an environment value that is not valid UTF-8.
// Raw retains the original bytes so no information is lost.
type NotUnicodeError struct {
	Raw []byte
}

func (e *NotUnicodeError) Error() string {
	return fmt.Sprintf("environment variable was not valid unicode: %q", e.Raw)
}

func errnoErr(code int32) error {
	return syscall.Errno(code)
}

package hostbridge

import (
	"errors"
	"syscall"
)

// errnoOf reduces a host error to the errno the protocol carries. Errors
// with no errno report EIO rather than leaking their text across the
// boundary.
func errnoOf(err error) int32 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int32(errno)
	}
	return int32(syscall.EIO)
}

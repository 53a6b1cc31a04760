package boundary

import (
	"errors"
	"fmt"

	"github.com/deernetwork/enclstd/ocall"
)

var (
	// ErrCapacityExceeded reports a payload that does not fit the shared
	// arena.
	ErrCapacityExceeded = errors.New("boundary: shared arena capacity exceeded")

	// ErrUntrustedSizeMismatch reports a host-declared response length that
	// disagrees with the region the gate claimed for it.
	ErrUntrustedSizeMismatch = errors.New("boundary: host-declared length disagrees with claimed region")

	// ErrClosedRegion reports use of a region after Release.
	ErrClosedRegion = errors.New("boundary: region already released")
)

// HostRejectedError reports a nonzero status word. The response payload of
// a rejected crossing is never interpreted.
type HostRejectedError struct {
	Op   ocall.Op
	Code ocall.Status
}

func (e *HostRejectedError) Error() string {
	return fmt.Sprintf("boundary: host rejected %s: %s", e.Op, e.Code)
}

package gnet

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrNoAddresses reports a name that resolved to zero candidate addresses.
var ErrNoAddresses = errors.New("could not resolve to any addresses")

// ErrClosed reports use of a socket after Close.
var ErrClosed = errors.New("use of closed connection")

// OpError is the error shape of every failed socket operation. Err is
// usually a syscall.Errno reported by the host; boundary-layer failures
// wrap through here too, so call sites cannot distinguish the two except
// by inspecting Err.
type OpError struct {
	Op   string
	Addr string
	Err  error
}

func (e *OpError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func errnoErr(code int32) error {
	return syscall.Errno(code)
}

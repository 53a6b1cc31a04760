package gnet

import (
	"context"
	"fmt"
	"sync/atomic"
	"syscall"

	"github.com/deernetwork/enclstd/ocall"
)

// UDPSocket is a bound UDP socket held on the host side.
type UDPSocket struct {
	stack  *Stack
	handle int32
	bound  SockAddr
	closed atomic.Bool
}

// Addr returns the address the host actually bound.
func (u *UDPSocket) Addr() SockAddr { return u.bound }

// SendTo sends one datagram to sa. A datagram cannot be split across
// crossings; one that does not fit fails with EMSGSIZE.
func (u *UDPSocket) SendTo(ctx context.Context, p []byte, sa SockAddr) (int, error) {
	if u.closed.Load() {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: ErrClosed}
	}
	if len(p) > u.stack.transferBudget() {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: syscall.EMSGSIZE}
	}
	req := ocall.SendToRequest{Handle: u.handle, Addr: sa, Data: p}
	payload, _ := req.MarshalBinary()
	raw, err := u.stack.gate.Invoke(ctx, ocall.OpSendTo, payload, ctrlRespCap)
	if err != nil {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: err}
	}
	var resp ocall.SendResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: err}
	}
	if resp.Errno != 0 {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: errnoErr(resp.Errno)}
	}
	if int(resp.N) > len(p) {
		return 0, &OpError{Op: "sendto", Addr: sa.String(), Err: fmt.Errorf("host reported sending %d of %d bytes", resp.N, len(p))}
	}
	return int(resp.N), nil
}

// RecvFrom blocks for one datagram and reports the validated peer
// address. A buffer larger than one crossing can carry is clamped; a
// datagram beyond the clamp truncates, as recvfrom does.
func (u *UDPSocket) RecvFrom(ctx context.Context, p []byte) (int, SockAddr, error) {
	if u.closed.Load() {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: ErrClosed}
	}
	want := len(p)
	if max := u.stack.transferBudget(); want > max {
		want = max
	}
	req := ocall.RecvFromRequest{Handle: u.handle, Cap: uint32(want)}
	payload, _ := req.MarshalBinary()
	raw, err := u.stack.gate.Invoke(ctx, ocall.OpRecvFrom, payload, want+recvFromHeader)
	if err != nil {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: err}
	}
	var resp ocall.RecvFromResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: err}
	}
	if resp.Errno != 0 {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: errnoErr(resp.Errno)}
	}
	if len(resp.Data) > want {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: fmt.Errorf("host returned %d bytes for a %d-byte read", len(resp.Data), want)}
	}
	if !resp.Peer.IsValid() {
		return 0, SockAddr{}, &OpError{Op: "recvfrom", Addr: u.bound.String(), Err: fmt.Errorf("host reported no peer address")}
	}
	copy(p, resp.Data)
	return len(resp.Data), resp.Peer, nil
}

// Close releases the host-side socket. Idempotent.
func (u *UDPSocket) Close() error {
	if !u.closed.CompareAndSwap(false, true) {
		return nil
	}
	return closeHandle(u.stack, u.handle, u.bound.String())
}

// recvFromHeader is recvHeader plus the largest peer address encoding.
const recvFromHeader = recvHeader + 19

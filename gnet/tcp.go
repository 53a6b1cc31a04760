package gnet

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/deernetwork/enclstd/ocall"
)

// How selects which direction Shutdown closes.
type How uint8

const (
	// ShutdownRead makes subsequent reads observe end-of-stream.
	ShutdownRead How = How(ocall.HowRead)
	// ShutdownWrite makes subsequent writes fail.
	ShutdownWrite How = How(ocall.HowWrite)
	// ShutdownBoth applies both.
	ShutdownBoth How = How(ocall.HowBoth)
)

// TCPStream is a connected TCP socket held on the host side. It implements
// io.Reader, io.Writer, and io.Closer. A transfer larger than one crossing
// can carry is never refused: Read degrades to a short read and Write
// splits the data across crossings.
type TCPStream struct {
	stack  *Stack
	handle int32
	peer   SockAddr
	closed atomic.Bool
}

// RemoteAddr returns the address this stream was connected to.
func (c *TCPStream) RemoteAddr() SockAddr { return c.peer }

// Read fills p from the socket. A host-reported read of zero bytes with no
// errno is end-of-stream and returns io.EOF.
func (c *TCPStream) Read(p []byte) (int, error) {
	return c.ReadContext(context.Background(), p)
}

// ReadContext is Read with a caller-supplied context. A buffer larger
// than one crossing can carry yields a short read, which io.Reader
// callers already handle.
func (c *TCPStream) ReadContext(ctx context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, &OpError{Op: "read", Addr: c.peer.String(), Err: ErrClosed}
	}
	if len(p) == 0 {
		return 0, nil
	}
	want := len(p)
	if max := c.stack.transferBudget(); want > max {
		want = max
	}
	req := ocall.RecvRequest{Handle: c.handle, Cap: uint32(want)}
	payload, _ := req.MarshalBinary()
	raw, err := c.stack.gate.Invoke(ctx, ocall.OpRecv, payload, want+recvHeader)
	if err != nil {
		return 0, &OpError{Op: "read", Addr: c.peer.String(), Err: err}
	}
	var resp ocall.RecvResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return 0, &OpError{Op: "read", Addr: c.peer.String(), Err: err}
	}
	if resp.Errno != 0 {
		return 0, &OpError{Op: "read", Addr: c.peer.String(), Err: errnoErr(resp.Errno)}
	}
	if len(resp.Data) > want {
		return 0, &OpError{Op: "read", Addr: c.peer.String(), Err: fmt.Errorf("host returned %d bytes for a %d-byte read", len(resp.Data), want)}
	}
	if len(resp.Data) == 0 {
		return 0, io.EOF
	}
	copy(p, resp.Data)
	return len(resp.Data), nil
}

// Write sends all of p, splitting it into crossing-sized chunks and
// looping on host-reported short writes.
func (c *TCPStream) Write(p []byte) (int, error) {
	return c.WriteContext(context.Background(), p)
}

// WriteContext is Write with a caller-supplied context.
func (c *TCPStream) WriteContext(ctx context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, &OpError{Op: "write", Addr: c.peer.String(), Err: ErrClosed}
	}
	written := 0
	for written < len(p) {
		chunk := p[written:]
		if max := c.stack.transferBudget(); len(chunk) > max {
			chunk = chunk[:max]
		}
		req := ocall.SendRequest{Handle: c.handle, Data: chunk}
		payload, _ := req.MarshalBinary()
		raw, err := c.stack.gate.Invoke(ctx, ocall.OpSend, payload, ctrlRespCap)
		if err != nil {
			return written, &OpError{Op: "write", Addr: c.peer.String(), Err: err}
		}
		var resp ocall.SendResponse
		if err := resp.UnmarshalBinary(raw); err != nil {
			return written, &OpError{Op: "write", Addr: c.peer.String(), Err: err}
		}
		if resp.Errno != 0 {
			return written, &OpError{Op: "write", Addr: c.peer.String(), Err: errnoErr(resp.Errno)}
		}
		n := int(resp.N)
		if n <= 0 || n > len(chunk) {
			return written, &OpError{Op: "write", Addr: c.peer.String(), Err: fmt.Errorf("host reported writing %d of %d bytes", n, len(chunk))}
		}
		written += n
	}
	return written, nil
}

// Shutdown closes the read side, the write side, or both. Reads after
// ShutdownRead observe end-of-stream; writes after ShutdownWrite fail.
func (c *TCPStream) Shutdown(how How) error {
	if c.closed.Load() {
		return &OpError{Op: "shutdown", Addr: c.peer.String(), Err: ErrClosed}
	}
	req := ocall.ShutdownRequest{Handle: c.handle, How: uint8(how)}
	payload, _ := req.MarshalBinary()
	raw, err := c.stack.gate.Invoke(context.Background(), ocall.OpShutdown, payload, ctrlRespCap)
	if err != nil {
		return &OpError{Op: "shutdown", Addr: c.peer.String(), Err: err}
	}
	var resp ocall.ErrnoResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return &OpError{Op: "shutdown", Addr: c.peer.String(), Err: err}
	}
	if resp.Errno != 0 {
		return &OpError{Op: "shutdown", Addr: c.peer.String(), Err: errnoErr(resp.Errno)}
	}
	return nil
}

// Close releases the host-side socket. Idempotent and safe to call
// concurrently with an in-flight Read or Write.
func (c *TCPStream) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return closeHandle(c.stack, c.handle, c.peer.String())
}

// TCPListener is a listening TCP socket held on the host side.
type TCPListener struct {
	stack  *Stack
	handle int32
	bound  SockAddr
	closed atomic.Bool
}

// Addr returns the address the host actually bound.
func (l *TCPListener) Addr() SockAddr { return l.bound }

// Accept blocks until a peer connects. The peer address the host reports
// is validated before the stream is returned.
func (l *TCPListener) Accept(ctx context.Context) (*TCPStream, error) {
	if l.closed.Load() {
		return nil, &OpError{Op: "accept", Addr: l.bound.String(), Err: ErrClosed}
	}
	req := ocall.AcceptRequest{Handle: l.handle}
	payload, _ := req.MarshalBinary()
	raw, err := l.stack.gate.Invoke(ctx, ocall.OpAccept, payload, ctrlRespCap)
	if err != nil {
		return nil, &OpError{Op: "accept", Addr: l.bound.String(), Err: err}
	}
	var resp ocall.AcceptResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, &OpError{Op: "accept", Addr: l.bound.String(), Err: err}
	}
	if resp.Errno != 0 {
		return nil, &OpError{Op: "accept", Addr: l.bound.String(), Err: errnoErr(resp.Errno)}
	}
	if !resp.Peer.IsValid() {
		return nil, &OpError{Op: "accept", Addr: l.bound.String(), Err: fmt.Errorf("host reported no peer address")}
	}
	return &TCPStream{stack: l.stack, handle: resp.Handle, peer: resp.Peer}, nil
}

// Close releases the host-side socket. Idempotent.
func (l *TCPListener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return closeHandle(l.stack, l.handle, l.bound.String())
}

// recvHeader is the response overhead on top of the data itself: errno,
// length prefix, and slack.
const recvHeader = 16

func closeHandle(s *Stack, handle int32, addr string) error {
	req := ocall.SockCloseRequest{Handle: handle}
	payload, _ := req.MarshalBinary()
	raw, err := s.gate.Invoke(context.Background(), ocall.OpSockClose, payload, ctrlRespCap)
	if err != nil {
		return &OpError{Op: "close", Addr: addr, Err: err}
	}
	var resp ocall.ErrnoResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return &OpError{Op: "close", Addr: addr, Err: err}
	}
	if resp.Errno != 0 {
		return &OpError{Op: "close", Addr: addr, Err: errnoErr(resp.Errno)}
	}
	return nil
}

package gnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/deernetwork/enclstd/boundary"
	"github.com/deernetwork/enclstd/ocall"
)

const (
	ctrlRespCap    = 64      // errno + handle + sockaddr responses
	resolveRespCap = 4 << 10 // enough for hundreds of candidates
	listenBacklog  = 128
)

// Stack issues socket operations through a call gate.
type Stack struct {
	gate *boundary.Gate
}

// NewStack binds a Stack to its gate.
func NewStack(gate *boundary.Gate) *Stack {
	return &Stack{gate: gate}
}

// transferBudget bounds the socket bytes one crossing may carry. A
// quarter of the arena keeps a call's request and response regions well
// inside it and leaves room for a concurrent crossing on the same arena,
// the usual shape of one goroutine reading while another writes. Reads
// beyond the budget come back short; writes beyond it are split across
// crossings.
func (s *Stack) transferBudget() int {
	n := s.gate.ArenaCap()/4 - recvFromHeader
	if n < 1 {
		n = 1
	}
	return n
}

// Resolve returns the candidate addresses for host, paired with port, in
// host-resolution order. An IP literal never crosses the boundary.
func (s *Stack) Resolve(ctx context.Context, host string, port uint16) ([]SockAddr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return []SockAddr{AddrFrom(ip, port)}, nil
	}

	req := ocall.ResolveRequest{Host: []byte(host)}
	payload, _ := req.MarshalBinary()
	raw, err := s.gate.Invoke(ctx, ocall.OpResolve, payload, resolveRespCap)
	if err != nil {
		return nil, &OpError{Op: "resolve", Addr: host, Err: err}
	}
	var resp ocall.ResolveResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, &OpError{Op: "resolve", Addr: host, Err: err}
	}
	if resp.Errno != 0 {
		return nil, &OpError{Op: "resolve", Addr: host, Err: errors.New("host lookup failed")}
	}
	addrs := make([]SockAddr, 0, len(resp.Addrs))
	for _, ip := range resp.Addrs {
		addrs = append(addrs, AddrFrom(ip, port))
	}
	return addrs, nil
}

// Dial connects to "host:port", attempting each resolved candidate in
// order and returning the first success. If every candidate fails the last
// attempt's error is returned; zero candidates fail with ErrNoAddresses.
func (s *Stack) Dial(ctx context.Context, addr string) (*TCPStream, error) {
	candidates, err := s.resolveAddr(ctx, addr)
	if err != nil {
		return nil, err
	}
	return eachAddr(ctx, candidates, s.DialAddr)
}

// DialAddr connects to one concrete address.
func (s *Stack) DialAddr(ctx context.Context, sa SockAddr) (*TCPStream, error) {
	req := ocall.ConnectRequest{Addr: sa}
	payload, _ := req.MarshalBinary()
	raw, err := s.gate.Invoke(ctx, ocall.OpConnect, payload, ctrlRespCap)
	if err != nil {
		return nil, &OpError{Op: "connect", Addr: sa.String(), Err: err}
	}
	var resp ocall.ConnectResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, &OpError{Op: "connect", Addr: sa.String(), Err: err}
	}
	if resp.Errno != 0 {
		return nil, &OpError{Op: "connect", Addr: sa.String(), Err: errnoErr(resp.Errno)}
	}
	return &TCPStream{stack: s, handle: resp.Handle, peer: sa}, nil
}

// Listen binds a TCP listener to "host:port", attempting each resolved
// candidate in order like Dial. Port 0 asks the host for an ephemeral
// port; Addr reports what was actually bound.
func (s *Stack) Listen(ctx context.Context, addr string) (*TCPListener, error) {
	candidates, err := s.resolveAddr(ctx, addr)
	if err != nil {
		return nil, err
	}
	return eachAddr(ctx, candidates, s.ListenAddr)
}

// ListenAddr binds a TCP listener to one concrete address.
func (s *Stack) ListenAddr(ctx context.Context, sa SockAddr) (*TCPListener, error) {
	req := ocall.ListenRequest{Addr: sa, Backlog: listenBacklog}
	payload, _ := req.MarshalBinary()
	raw, err := s.gate.Invoke(ctx, ocall.OpListen, payload, ctrlRespCap)
	if err != nil {
		return nil, &OpError{Op: "listen", Addr: sa.String(), Err: err}
	}
	var resp ocall.ListenResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, &OpError{Op: "listen", Addr: sa.String(), Err: err}
	}
	if resp.Errno != 0 {
		return nil, &OpError{Op: "listen", Addr: sa.String(), Err: errnoErr(resp.Errno)}
	}
	if err := checkBound(resp.Bound, sa); err != nil {
		return nil, &OpError{Op: "listen", Addr: sa.String(), Err: err}
	}
	return &TCPListener{stack: s, handle: resp.Handle, bound: resp.Bound}, nil
}

// BindUDP binds a UDP socket to "host:port", with the same candidate
// fallback as Listen.
func (s *Stack) BindUDP(ctx context.Context, addr string) (*UDPSocket, error) {
	candidates, err := s.resolveAddr(ctx, addr)
	if err != nil {
		return nil, err
	}
	return eachAddr(ctx, candidates, s.BindUDPAddr)
}

// BindUDPAddr binds a UDP socket to one concrete address.
func (s *Stack) BindUDPAddr(ctx context.Context, sa SockAddr) (*UDPSocket, error) {
	req := ocall.BindUDPRequest{Addr: sa}
	payload, _ := req.MarshalBinary()
	raw, err := s.gate.Invoke(ctx, ocall.OpBindUDP, payload, ctrlRespCap)
	if err != nil {
		return nil, &OpError{Op: "bind", Addr: sa.String(), Err: err}
	}
	var resp ocall.ListenResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, &OpError{Op: "bind", Addr: sa.String(), Err: err}
	}
	if resp.Errno != 0 {
		return nil, &OpError{Op: "bind", Addr: sa.String(), Err: errnoErr(resp.Errno)}
	}
	if err := checkBound(resp.Bound, sa); err != nil {
		return nil, &OpError{Op: "bind", Addr: sa.String(), Err: err}
	}
	return &UDPSocket{stack: s, handle: resp.Handle, bound: resp.Bound}, nil
}

// checkBound validates the host-reported bound address: it must be a real
// address, and when a concrete port was requested the host cannot report a
// different one.
func checkBound(bound, requested SockAddr) error {
	if !bound.IsValid() {
		return errors.New("host reported no bound address")
	}
	if requested.Port != 0 && bound.Port != requested.Port {
		return fmt.Errorf("host reported bound port %d, requested %d", bound.Port, requested.Port)
	}
	return nil
}

// resolveAddr turns "host:port" into candidate socket addresses.
func (s *Stack) resolveAddr(ctx context.Context, addr string) ([]SockAddr, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, &AddrParseError{Input: addr}
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, &AddrParseError{Input: addr}
	}
	// ":80" is the conventional wildcard spelling; it maps to the
	// unspecified addresses locally and never crosses as a lookup.
	if host == "" {
		return []SockAddr{
			AddrFrom(netip.IPv4Unspecified(), uint16(port)),
			AddrFrom(netip.IPv6Unspecified(), uint16(port)),
		}, nil
	}
	return s.Resolve(ctx, host, uint16(port))
}

// eachAddr applies f to each candidate in resolution order and returns the
// first success. This is sequential fallback, not parallel racing: when
// all candidates fail the error of the last attempt is returned.
func eachAddr[T any](ctx context.Context, addrs []SockAddr, f func(context.Context, SockAddr) (T, error)) (T, error) {
	var lastErr error
	for _, sa := range addrs {
		v, err := f(ctx, sa)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	var zero T
	if lastErr == nil {
		lastErr = ErrNoAddresses
	}
	return zero, lastErr
}

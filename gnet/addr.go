package gnet

import (
	"fmt"
	"net/netip"

	"github.com/deernetwork/enclstd/ocall"
)

// SockAddr is an IPv4 or IPv6 socket address. It is the same value type
// the boundary protocol carries; see [ocall.SockAddr].
type SockAddr = ocall.SockAddr

// AddrParseError reports a string that is not a valid "ip:port" address.
type AddrParseError struct {
	Input string
}

func (e *AddrParseError) Error() string {
	return fmt.Sprintf("invalid socket address syntax: %q", e.Input)
}

// ParseSockAddr parses "ip:port" (IPv6 in brackets) into a SockAddr.
func ParseSockAddr(s string) (SockAddr, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return SockAddr{}, &AddrParseError{Input: s}
	}
	return SockAddr{Addr: ap.Addr().Unmap(), Port: ap.Port()}, nil
}

// AddrFrom pairs an IP with a port.
func AddrFrom(addr netip.Addr, port uint16) SockAddr {
	return SockAddr{Addr: addr.Unmap(), Port: port}
}

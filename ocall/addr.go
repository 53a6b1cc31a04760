package ocall

import (
	"fmt"
	"net/netip"
)

// Address family tags on the wire. familyNone marks an absent address, used
// by responses whose errno field already says the operation failed.
const (
	familyNone uint8 = 0
	familyIPv4 uint8 = 4
	familyIPv6 uint8 = 6
)

// SockAddr is an IPv4 or IPv6 address with a port. It is a pure value type
// with structural equality and owns no resource.
//
// Wire form: family byte, then 4 or 16 address bytes, then a u16 port. A
// family byte of 0 carries nothing else and decodes to the zero SockAddr.
type SockAddr struct {
	Addr netip.Addr
	Port uint16
}

// IsValid reports whether the address carries a real IP.
func (a SockAddr) IsValid() bool { return a.Addr.IsValid() }

func (a SockAddr) String() string {
	if !a.Addr.IsValid() {
		return "<nil>"
	}
	return netip.AddrPortFrom(a.Addr, a.Port).String()
}

func appendSockAddr(b []byte, a SockAddr) []byte {
	switch {
	case !a.Addr.IsValid():
		return appendU8(b, familyNone)
	case a.Addr.Is4() || a.Addr.Is4In6():
		b = appendU8(b, familyIPv4)
		v4 := a.Addr.Unmap().As4()
		b = append(b, v4[:]...)
	default:
		b = appendU8(b, familyIPv6)
		v6 := a.Addr.As16()
		b = append(b, v6[:]...)
	}
	return appendU16(b, a.Port)
}

// decodeSockAddr validates the family tag against the address length before
// anything is trusted: a host cannot claim IPv4 and supply 16 bytes, or
// invent a family of its own.
func decodeSockAddr(d *decoder) (SockAddr, error) {
	family, err := d.u8()
	if err != nil {
		return SockAddr{}, err
	}
	var addr netip.Addr
	switch family {
	case familyNone:
		return SockAddr{}, nil
	case familyIPv4:
		raw, err := d.raw(4)
		if err != nil {
			return SockAddr{}, err
		}
		addr = netip.AddrFrom4([4]byte(raw))
	case familyIPv6:
		raw, err := d.raw(16)
		if err != nil {
			return SockAddr{}, err
		}
		addr = netip.AddrFrom16([16]byte(raw))
	default:
		return SockAddr{}, fmt.Errorf("ocall: unknown address family %d", family)
	}
	port, err := d.u16()
	if err != nil {
		return SockAddr{}, err
	}
	return SockAddr{Addr: addr, Port: port}, nil
}

func appendIP(b []byte, a netip.Addr) []byte {
	switch {
	case !a.IsValid():
		return appendU8(b, familyNone)
	case a.Is4() || a.Is4In6():
		b = appendU8(b, familyIPv4)
		v4 := a.Unmap().As4()
		return append(b, v4[:]...)
	default:
		b = appendU8(b, familyIPv6)
		v6 := a.As16()
		return append(b, v6[:]...)
	}
}

func decodeIP(d *decoder) (netip.Addr, error) {
	family, err := d.u8()
	if err != nil {
		return netip.Addr{}, err
	}
	switch family {
	case familyIPv4:
		raw, err := d.raw(4)
		if err != nil {
			return netip.Addr{}, err
		}
		return netip.AddrFrom4([4]byte(raw)), nil
	case familyIPv6:
		raw, err := d.raw(16)
		if err != nil {
			return netip.Addr{}, err
		}
		return netip.AddrFrom16([16]byte(raw)), nil
	}
	return netip.Addr{}, fmt.Errorf("ocall: unknown address family %d", family)
}

//go:build linux

package hostbridge

import (
	"context"
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/deernetwork/enclstd/ocall"
)

// The socket handlers mirror what a real OCALL host does: fd-level
// syscalls, with the fd itself travelling back as the handle.

func registerNet(r *Registry) {
	r.Register(ocall.OpConnect, handleConnect)
	r.Register(ocall.OpListen, handleListen)
	r.Register(ocall.OpAccept, handleAccept)
	r.Register(ocall.OpRecv, handleRecv)
	r.Register(ocall.OpSend, handleSend)
	r.Register(ocall.OpBindUDP, handleBindUDP)
	r.Register(ocall.OpRecvFrom, handleRecvFrom)
	r.Register(ocall.OpSendTo, handleSendTo)
	r.Register(ocall.OpShutdown, handleShutdown)
	r.Register(ocall.OpSockClose, handleSockClose)
}

// maxRecv caps a single host read regardless of what the enclave asked
// for; bigger reads split into more crossings.
const maxRecv = 1 << 20

func handleConnect(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.ConnectRequest
	if err := m.UnmarshalBinary(req); err != nil || !m.Addr.IsValid() {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.ConnectResponse{Handle: -1}
	fd, err := unix.Socket(afOf(m.Addr.Addr), unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	if err := unix.Connect(fd, toSockaddr(m.Addr)); err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	resp.Handle = int32(fd)
	return marshal(&resp)
}

func handleListen(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.ListenRequest
	if err := m.UnmarshalBinary(req); err != nil || !m.Addr.IsValid() {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.ListenResponse{Handle: -1}
	fd, err := unix.Socket(afOf(m.Addr.Addr), unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err := unix.Bind(fd, toSockaddr(m.Addr)); err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	if err := unix.Listen(fd, int(m.Backlog)); err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	resp.Handle = int32(fd)
	resp.Bound = fromSockaddr(sa)
	return marshal(&resp)
}

func handleAccept(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.AcceptRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.AcceptResponse{Handle: -1}
	fd, sa, err := unix.Accept4(int(m.Handle), unix.SOCK_CLOEXEC)
	if err != nil {
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	resp.Handle = int32(fd)
	resp.Peer = fromSockaddr(sa)
	return marshal(&resp)
}

func handleRecv(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.RecvRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	n := int(m.Cap)
	if n > maxRecv {
		n = maxRecv
	}
	buf := make([]byte, n)
	resp := ocall.RecvResponse{}
	got, err := unix.Read(int(m.Handle), buf)
	if err != nil {
		resp.Errno = errnoOf(err)
	} else {
		resp.Data = buf[:got]
	}
	return marshal(&resp)
}

func handleSend(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.SendRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.SendResponse{}
	n, err := unix.Write(int(m.Handle), m.Data)
	if err != nil {
		resp.Errno = errnoOf(err)
	} else {
		resp.N = uint32(n)
	}
	return marshal(&resp)
}

func handleBindUDP(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.BindUDPRequest
	if err := m.UnmarshalBinary(req); err != nil || !m.Addr.IsValid() {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.ListenResponse{Handle: -1}
	fd, err := unix.Socket(afOf(m.Addr.Addr), unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	if err := unix.Bind(fd, toSockaddr(m.Addr)); err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		resp.Errno = errnoOf(err)
		return marshal(&resp)
	}
	resp.Handle = int32(fd)
	resp.Bound = fromSockaddr(sa)
	return marshal(&resp)
}

func handleRecvFrom(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.RecvFromRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	n := int(m.Cap)
	if n > maxRecv {
		n = maxRecv
	}
	buf := make([]byte, n)
	resp := ocall.RecvFromResponse{}
	got, sa, err := unix.Recvfrom(int(m.Handle), buf, 0)
	if err != nil {
		resp.Errno = errnoOf(err)
	} else {
		resp.Data = buf[:got]
		resp.Peer = fromSockaddr(sa)
	}
	return marshal(&resp)
}

func handleSendTo(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.SendToRequest
	if err := m.UnmarshalBinary(req); err != nil || !m.Addr.IsValid() {
		return nil, ocall.StatusBadRequest
	}

	resp := ocall.SendResponse{}
	if err := unix.Sendto(int(m.Handle), m.Data, 0, toSockaddr(m.Addr)); err != nil {
		resp.Errno = errnoOf(err)
	} else {
		resp.N = uint32(len(m.Data))
	}
	return marshal(&resp)
}

func handleShutdown(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.ShutdownRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	var how int
	switch m.How {
	case ocall.HowRead:
		how = unix.SHUT_RD
	case ocall.HowWrite:
		how = unix.SHUT_WR
	case ocall.HowBoth:
		how = unix.SHUT_RDWR
	default:
		return nil, ocall.StatusBadRequest
	}
	err := unix.Shutdown(int(m.Handle), how)
	out, _ := (&ocall.ErrnoResponse{Errno: errnoOf(err)}).MarshalBinary()
	return out, ocall.StatusOK
}

func handleSockClose(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.SockCloseRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}
	err := unix.Close(int(m.Handle))
	out, _ := (&ocall.ErrnoResponse{Errno: errnoOf(err)}).MarshalBinary()
	return out, ocall.StatusOK
}

func afOf(a netip.Addr) int {
	if a.Is4() || a.Is4In6() {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func toSockaddr(sa ocall.SockAddr) unix.Sockaddr {
	if sa.Addr.Is4() || sa.Addr.Is4In6() {
		return &unix.SockaddrInet4{Port: int(sa.Port), Addr: sa.Addr.Unmap().As4()}
	}
	return &unix.SockaddrInet6{Port: int(sa.Port), Addr: sa.Addr.As16()}
}

func fromSockaddr(sa unix.Sockaddr) ocall.SockAddr {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return ocall.SockAddr{Addr: netip.AddrFrom4(v.Addr), Port: uint16(v.Port)}
	case *unix.SockaddrInet6:
		return ocall.SockAddr{Addr: netip.AddrFrom16(v.Addr).Unmap(), Port: uint16(v.Port)}
	}
	return ocall.SockAddr{}
}

func marshal(m interface{ MarshalBinary() ([]byte, error) }) ([]byte, ocall.Status) {
	out, err := m.MarshalBinary()
	if err != nil {
		return nil, ocall.StatusInternal
	}
	return out, ocall.StatusOK
}

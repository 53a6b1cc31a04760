//go:build !linux

package hostbridge

import (
	"context"
	"syscall"

	"github.com/deernetwork/enclstd/ocall"
)

// Socket handlers are fd-level and Linux-only, matching the deployment
// target. Elsewhere every socket op reports ENOSYS.

func registerNet(r *Registry) {
	for _, op := range []ocall.Op{
		ocall.OpConnect, ocall.OpListen, ocall.OpAccept,
		ocall.OpRecv, ocall.OpSend, ocall.OpBindUDP,
		ocall.OpRecvFrom, ocall.OpSendTo, ocall.OpShutdown, ocall.OpSockClose,
	} {
		r.Register(op, notImplemented(op))
	}
}

func notImplemented(op ocall.Op) Handler {
	return func(ctx context.Context, req []byte) ([]byte, ocall.Status) {
		errno := int32(syscall.ENOSYS)
		switch op {
		case ocall.OpConnect:
			out, _ := (&ocall.ConnectResponse{Errno: errno, Handle: -1}).MarshalBinary()
			return out, ocall.StatusOK
		case ocall.OpListen, ocall.OpBindUDP:
			out, _ := (&ocall.ListenResponse{Errno: errno, Handle: -1}).MarshalBinary()
			return out, ocall.StatusOK
		case ocall.OpAccept:
			out, _ := (&ocall.AcceptResponse{Errno: errno, Handle: -1}).MarshalBinary()
			return out, ocall.StatusOK
		case ocall.OpRecv:
			out, _ := (&ocall.RecvResponse{Errno: errno}).MarshalBinary()
			return out, ocall.StatusOK
		case ocall.OpRecvFrom:
			out, _ := (&ocall.RecvFromResponse{Errno: errno}).MarshalBinary()
			return out, ocall.StatusOK
		case ocall.OpSend, ocall.OpSendTo:
			out, _ := (&ocall.SendResponse{Errno: errno}).MarshalBinary()
			return out, ocall.StatusOK
		default:
			out, _ := (&ocall.ErrnoResponse{Errno: errno}).MarshalBinary()
			return out, ocall.StatusOK
		}
	}
}

package hostbridge

import (
	"context"
	"net"
	"net/netip"
	"syscall"

	"github.com/deernetwork/enclstd/ocall"
)

// LookupFunc resolves a hostname to candidate IPs in preference order.
type LookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

func defaultLookup(ctx context.Context, host string) ([]netip.Addr, error) {
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	for i := range addrs {
		addrs[i] = addrs[i].Unmap()
	}
	return addrs, nil
}

func newResolveHandler(lookup LookupFunc) Handler {
	return func(ctx context.Context, req []byte) ([]byte, ocall.Status) {
		var m ocall.ResolveRequest
		if err := m.UnmarshalBinary(req); err != nil {
			return nil, ocall.StatusBadRequest
		}

		resp := ocall.ResolveResponse{}
		addrs, err := lookup(ctx, string(m.Host))
		if err != nil {
			resp.Errno = int32(syscall.ENOENT)
		} else {
			resp.Addrs = addrs
		}
		out, _ := resp.MarshalBinary()
		return out, ocall.StatusOK
	}
}

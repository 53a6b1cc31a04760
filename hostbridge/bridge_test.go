package hostbridge

import (
	"context"
	"net/netip"
	"testing"

	"github.com/deernetwork/enclstd/ocall"
)

func TestDispatchUnknownOp(t *testing.T) {
	d := NewDispatcher(NewRegistry())
	resp := make([]byte, 64)

	n, status := d.Dispatch(context.Background(), ocall.Op(0xFFFF), nil, resp)
	if status != ocall.StatusBadOp {
		t.Fatalf("expected StatusBadOp, got %v", status)
	}
	if n != 0 {
		t.Errorf("expected zero response length, got %d", n)
	}
}

func TestDispatchOverflow(t *testing.T) {
	r := NewRegistry()
	r.Register(ocall.OpEnvGet, func(ctx context.Context, req []byte) ([]byte, ocall.Status) {
		return make([]byte, 128), ocall.StatusOK
	})
	d := NewDispatcher(r)

	resp := make([]byte, 16)
	n, status := d.Dispatch(context.Background(), ocall.OpEnvGet, nil, resp)
	if status != ocall.StatusOverflow {
		t.Fatalf("expected StatusOverflow, got %v", status)
	}
	if n != 0 {
		t.Errorf("expected zero response length, got %d", n)
	}
}

func TestDispatchCopiesRequest(t *testing.T) {
	r := NewRegistry()
	var seen []byte
	r.Register(ocall.OpEnvGet, func(ctx context.Context, req []byte) ([]byte, ocall.Status) {
		seen = req
		return nil, ocall.StatusOK
	})
	d := NewDispatcher(r)

	// Mutating the shared request region after dispatch must not be
	// visible to the handler's copy.
	shared := []byte{1, 2, 3, 4}
	resp := make([]byte, 16)
	if _, status := d.Dispatch(context.Background(), ocall.OpEnvGet, shared, resp); status != ocall.StatusOK {
		t.Fatalf("dispatch failed with %v", status)
	}
	shared[0] = 0xFF
	if seen[0] != 1 {
		t.Error("handler observed mutation of the shared request region")
	}
}

func TestRegistryOps(t *testing.T) {
	d := New()
	ops := d.Registry().Ops()

	want := []ocall.Op{
		ocall.OpEnvGet, ocall.OpEnvSet, ocall.OpEnvUnset, ocall.OpEnvList,
		ocall.OpGetwd, ocall.OpChdir, ocall.OpCurrentExe,
		ocall.OpResolve, ocall.OpConnect,
		ocall.OpListen, ocall.OpAccept, ocall.OpRecv, ocall.OpSend,
		ocall.OpBindUDP, ocall.OpRecvFrom, ocall.OpSendTo,
		ocall.OpShutdown, ocall.OpSockClose,
	}
	got := make(map[ocall.Op]bool, len(ops))
	for _, op := range ops {
		got[op] = true
	}
	for _, op := range want {
		if !got[op] {
			t.Errorf("expected %v to be registered", op)
		}
	}
}

func TestEnvHandlers(t *testing.T) {
	t.Setenv("HOSTBRIDGE_TEST_KEY", "bridged")
	d := New()
	resp := make([]byte, 256)

	req, _ := (&ocall.EnvGetRequest{Key: []byte("HOSTBRIDGE_TEST_KEY")}).MarshalBinary()
	n, status := d.Dispatch(context.Background(), ocall.OpEnvGet, req, resp)
	if status != ocall.StatusOK {
		t.Fatalf("dispatch failed with %v", status)
	}

	var out ocall.EnvGetResponse
	if err := out.UnmarshalBinary(resp[:n]); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if !out.Found || string(out.Value) != "bridged" {
		t.Errorf("expected found=true value=%q, got found=%v value=%q", "bridged", out.Found, out.Value)
	}

	req, _ = (&ocall.EnvGetRequest{Key: []byte("HOSTBRIDGE_TEST_MISSING")}).MarshalBinary()
	n, status = d.Dispatch(context.Background(), ocall.OpEnvGet, req, resp)
	if status != ocall.StatusOK {
		t.Fatalf("dispatch failed with %v", status)
	}
	if err := out.UnmarshalBinary(resp[:n]); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if out.Found {
		t.Error("expected found=false for a missing variable")
	}
}

func TestEnvGetMalformedRequest(t *testing.T) {
	d := New()
	resp := make([]byte, 64)

	// Truncated length prefix.
	_, status := d.Dispatch(context.Background(), ocall.OpEnvGet, []byte{0, 0}, resp)
	if status != ocall.StatusBadRequest {
		t.Errorf("expected StatusBadRequest, got %v", status)
	}
}

func TestResolveHandlerUsesLookup(t *testing.T) {
	var gotHost string
	lookup := func(ctx context.Context, host string) ([]netip.Addr, error) {
		gotHost = host
		return []netip.Addr{netip.MustParseAddr("192.0.2.7")}, nil
	}
	d := New(WithLookup(lookup))
	resp := make([]byte, 256)

	req, _ := (&ocall.ResolveRequest{Host: []byte("example.test")}).MarshalBinary()
	n, status := d.Dispatch(context.Background(), ocall.OpResolve, req, resp)
	if status != ocall.StatusOK {
		t.Fatalf("dispatch failed with %v", status)
	}
	if gotHost != "example.test" {
		t.Errorf("lookup saw host %q", gotHost)
	}

	var out ocall.ResolveResponse
	if err := out.UnmarshalBinary(resp[:n]); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if out.Errno != 0 {
		t.Fatalf("unexpected errno %d", out.Errno)
	}
	if len(out.Addrs) != 1 || out.Addrs[0] != netip.MustParseAddr("192.0.2.7") {
		t.Errorf("unexpected addresses %v", out.Addrs)
	}
}

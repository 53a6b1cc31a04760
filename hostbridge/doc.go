// Package hostbridge is the untrusted side of the boundary: a dispatcher
// that services the enclave's operation codes against real host resources:
// the process environment, DNS, and fd-level sockets.
//
// It exists for development, tests, and the CLI; a production deployment
// substitutes its own [boundary.Bridge] speaking the same protocol. Nothing
// here is inside the trust boundary: the enclave-side packages validate
// everything this package returns.
//
// # Registry
//
// The [Registry] maps operation codes to handlers. [New] builds a
// dispatcher with the full handler set; register custom ops on top:
//
//	bridge := hostbridge.New()
//	bridge.Registry().Register(myOp, func(ctx context.Context, req []byte) ([]byte, ocall.Status) {
//	    return nil, ocall.StatusOK
//	})
package hostbridge

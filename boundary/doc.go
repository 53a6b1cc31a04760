// Package boundary implements the enclave side of the OCALL bridge: a
// shared arena for marshalling payloads and a call gate that issues one
// synchronous crossing at a time.
//
// # Model
//
// The [Arena] is the only memory both sides can see. A crossing claims two
// per-call-exclusive regions in it, one for the request and one for the
// response, so concurrent crossings from different goroutines never
// observe each other's payload bytes. No enclave-private pointer ever
// crosses: the gate copies request bytes out into the arena and copies
// response bytes back into private memory.
//
// The [Gate] checks the host-reported status word before anything else; a
// nonzero status voids the payload and surfaces as [HostRejectedError]. A
// host-declared response length that disagrees with the claimed region
// fails with [ErrUntrustedSizeMismatch] and never yields a partially
// trusted value.
//
// The boundary primitive has no timeouts: a crossing returns or the
// calling goroutine stays blocked. Callers needing bounded waits must
// arrange a cooperative protocol with the bridge.
package boundary

// Package enclstd provides standard-library-shaped primitives (process
// environment, TCP/UDP sockets, C strings) for code running inside a
// hardware-isolated enclave that cannot make arbitrary host system calls.
//
// # Overview
//
// Every operation that would normally be a system call is re-routed through
// a narrow, explicitly-marshalled enclave/host boundary. The enclave never
// reads host memory directly: requests are copied into a shared arena,
// a single synchronous crossing is issued, and the response is copied back
// and validated before any enclave code trusts it.
//
// # Basic Usage
//
//	arena := boundary.NewArena(boundary.DefaultArenaSize)
//	gate := boundary.NewGate(arena, hostbridge.New())
//
//	environ := env.New(gate)
//	home, err := environ.Var(ctx, "HOME")
//
//	stack := gnet.NewStack(gate)
//	conn, err := stack.Dial(ctx, "example.com:80")
//
// # Trust Model
//
// Everything on the far side of the [boundary] package is untrusted: the
// host may report wrong lengths, malformed addresses, or garbage payloads.
// All of it is bounds-checked, copied into private memory, and structurally
// validated before it is wrapped in a trusted type. Validation failures are
// typed errors carrying enough context (position, original bytes) for the
// caller to decide recovery; they are never silently corrected.
//
// See the [boundary], [ocall], [env], [gnet], [cstr], and [hostbridge]
// packages for detailed API documentation.
package enclstd

// Package gnet provides TCP/UDP networking for enclave code. Sockets live
// on the host side of the boundary; the enclave holds opaque handles and
// every blocking operation (connect, accept, read, write, shutdown) goes
// through the call gate. Control operations are one crossing each; a data
// transfer too large for one crossing degrades to a short read or is
// split across a short sequence of crossings.
//
// Host failures surface as *OpError wrapping a syscall.Errno, the same
// I/O-error shape any local operation would produce, so call sites do not
// see the trust boundary. Every address the host returns is validated
// (family against length) before it is trusted.
package gnet

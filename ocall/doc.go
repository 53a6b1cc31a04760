// Package ocall defines the vocabulary of the enclave/host boundary
// protocol: operation codes, status words, and the binary request/response
// message types both sides exchange through the shared arena.
//
// # Encoding
//
// Messages use big-endian fixed-width integers and u32-length-prefixed byte
// strings. There is no self-describing framing: each operation code fixes
// the request and response shape, so a decoder always knows what it is
// looking at.
//
// # Trust
//
// Everything decoded by this package may have been written by the untrusted
// host. UnmarshalBinary therefore bounds-checks every length, rejects
// trailing bytes, validates address family against address length, and
// copies every byte field out of the input buffer so no decoded value
// aliases shared memory.
package ocall

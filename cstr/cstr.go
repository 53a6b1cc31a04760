// Package cstr provides nul-terminated byte strings for interoperating
// with C-shaped APIs across the enclave boundary.
//
// A [CString] owns its buffer and guarantees exactly one zero byte, at the
// last index. A [CStr] is a non-owning view over memory already known to
// satisfy the same invariant. Construction always validates; there is no
// unchecked path.
package cstr

import (
	"bytes"
	"unicode/utf8"
)

// CString is an owned, immutable, nul-terminated byte string. Close wipes
// the terminator-adjacent first byte so a stale foreign pointer observes an
// empty string rather than the old contents.
type CString struct {
	buf    []byte // includes the terminator
	closed bool
}

// New copies b into an owned nul-terminated buffer. It fails with
// *NulError if b contains an interior zero byte; the error retains the
// position and the full original bytes.
func New(b []byte) (*CString, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return nil, &NulError{Pos: i, Bytes: append([]byte(nil), b...)}
	}
	buf := make([]byte, len(b)+1)
	copy(buf, b)
	return &CString{buf: buf}, nil
}

// NewString is New for string input.
func NewString(s string) (*CString, error) {
	return New([]byte(s))
}

// FromVecWithNul takes ownership of v, which must already be
// nul-terminated with no interior nul. It succeeds iff v has exactly one
// zero byte, located at v[len(v)-1]; otherwise it fails with
// *FromVecWithNulError retaining v.
func FromVecWithNul(v []byte) (*CString, error) {
	if err := checkNulTerminated(v); err != nil {
		return nil, &FromVecWithNulError{Err: err, Bytes: v}
	}
	return &CString{buf: v}, nil
}

// Bytes returns the string contents without the terminator. The returned
// slice must not be mutated or retained past Close.
func (c *CString) Bytes() []byte {
	c.check()
	return c.buf[:len(c.buf)-1]
}

// BytesWithNul returns the contents including the terminator.
func (c *CString) BytesWithNul() []byte {
	c.check()
	return c.buf
}

// AsCStr returns a borrowed view of the string. The view must not outlive
// the CString.
func (c *CString) AsCStr() CStr {
	c.check()
	return CStr{b: c.buf}
}

// IntoString consumes the CString and returns its contents as UTF-8 text.
// On invalid UTF-8 it fails with *IntoStringError carrying the original
// bytes and the valid-up-to offset, and the CString remains usable so the
// caller can recover the raw data.
func (c *CString) IntoString() (string, error) {
	c.check()
	content := c.buf[:len(c.buf)-1]
	if !utf8.Valid(content) {
		return "", &IntoStringError{
			Bytes:     append([]byte(nil), content...),
			ValidUpTo: validUpTo(content),
		}
	}
	s := string(content)
	c.Close()
	return s, nil
}

// Close wipes the first byte of the buffer and retires the string. It runs
// the same way on every exit path and is safe to call more than once.
func (c *CString) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if len(c.buf) > 0 {
		c.buf[0] = 0
	}
	return nil
}

func (c *CString) check() {
	if c.closed {
		panic("cstr: use of CString after Close")
	}
}

// CStr is a non-owning view over a nul-terminated byte string. Equality
// and ordering are byte-wise, excluding the terminator.
type CStr struct {
	b []byte // includes the terminator
}

// FromBytesWithNul wraps b, which must contain exactly one nul byte,
// located at the last index. On a malformed input it fails with
// *FromBytesWithNulError distinguishing an interior nul (with its
// position) from a missing terminator.
func FromBytesWithNul(b []byte) (CStr, error) {
	if err := checkNulTerminated(b); err != nil {
		return CStr{}, err
	}
	return CStr{b: b}, nil
}

// Bytes returns the viewed contents without the terminator.
func (s CStr) Bytes() []byte { return s.b[:len(s.b)-1] }

// BytesWithNul returns the viewed contents including the terminator.
func (s CStr) BytesWithNul() []byte { return s.b }

// Equal reports byte-wise equality excluding the terminator.
func (s CStr) Equal(o CStr) bool { return bytes.Equal(s.Bytes(), o.Bytes()) }

// Compare orders byte-wise excluding the terminator.
func (s CStr) Compare(o CStr) int { return bytes.Compare(s.Bytes(), o.Bytes()) }

func (s CStr) String() string { return string(s.Bytes()) }

func checkNulTerminated(b []byte) *FromBytesWithNulError {
	i := bytes.IndexByte(b, 0)
	switch {
	case i < 0:
		return &FromBytesWithNulError{Pos: -1}
	case i != len(b)-1:
		return &FromBytesWithNulError{Pos: i}
	}
	return nil
}

// validUpTo returns the length of the longest valid UTF-8 prefix of b.
func validUpTo(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}

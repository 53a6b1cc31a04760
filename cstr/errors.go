package cstr

import "fmt"

// NulError reports an interior zero byte found where none is allowed. It
// retains the position and the full original input so nothing is lost.
type NulError struct {
	Pos   int
	Bytes []byte
}

func (e *NulError) Error() string {
	return fmt.Sprintf("nul byte found in provided data at position: %d", e.Pos)
}

// FromBytesWithNulError reports a malformed nul-terminated input. Pos is
// the offset of an interior nul, or -1 when the input was not terminated
// at all.
type FromBytesWithNulError struct {
	Pos int
}

func (e *FromBytesWithNulError) Error() string {
	if e.Pos < 0 {
		return "data provided is not nul terminated"
	}
	return fmt.Sprintf("data provided contains an interior nul byte at pos %d", e.Pos)
}

// FromVecWithNulError is FromBytesWithNulError for owned input; it retains
// the original bytes.
type FromVecWithNulError struct {
	Err   *FromBytesWithNulError
	Bytes []byte
}

func (e *FromVecWithNulError) Error() string { return e.Err.Error() }

func (e *FromVecWithNulError) Unwrap() error { return e.Err }

// IntoStringError reports invalid UTF-8 when converting a C string to
// text. ValidUpTo is the length of the longest valid prefix, so partial
// recovery is possible; Bytes retains the original contents.
type IntoStringError struct {
	Bytes     []byte
	ValidUpTo int
}

func (e *IntoStringError) Error() string {
	return fmt.Sprintf("C string contained non-utf8 bytes: invalid from position %d", e.ValidUpTo)
}

package ocall

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShortMessage reports a message that ended before a declared field.
	ErrShortMessage = errors.New("ocall: message truncated")
	// ErrTrailingBytes reports bytes left over after the last field.
	ErrTrailingBytes = errors.New("ocall: trailing bytes after message")
)

func appendU8(b []byte, v uint8) []byte {
	return append(b, v)
}

func appendU16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func appendU32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func appendI32(b []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(v))
}

// appendBytes writes a u32 length prefix followed by p.
func appendBytes(b, p []byte) []byte {
	b = appendU32(b, uint32(len(p)))
	return append(b, p...)
}

// decoder consumes an untrusted message front to back. Every read is
// bounds checked and byte fields are copied, never aliased.
type decoder struct {
	rest []byte
}

func (d *decoder) u8() (uint8, error) {
	if len(d.rest) < 1 {
		return 0, ErrShortMessage
	}
	v := d.rest[0]
	d.rest = d.rest[1:]
	return v, nil
}

func (d *decoder) u16() (uint16, error) {
	if len(d.rest) < 2 {
		return 0, ErrShortMessage
	}
	v := binary.BigEndian.Uint16(d.rest)
	d.rest = d.rest[2:]
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if len(d.rest) < 4 {
		return 0, ErrShortMessage
	}
	v := binary.BigEndian.Uint32(d.rest)
	d.rest = d.rest[4:]
	return v, nil
}

func (d *decoder) i32() (int32, error) {
	v, err := d.u32()
	return int32(v), err
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(len(d.rest)) {
		return nil, fmt.Errorf("declared length %d exceeds remaining %d: %w", n, len(d.rest), ErrShortMessage)
	}
	p := make([]byte, n)
	copy(p, d.rest[:n])
	d.rest = d.rest[n:]
	return p, nil
}

func (d *decoder) raw(n int) ([]byte, error) {
	if n > len(d.rest) {
		return nil, ErrShortMessage
	}
	p := make([]byte, n)
	copy(p, d.rest[:n])
	d.rest = d.rest[n:]
	return p, nil
}

func (d *decoder) finish() error {
	if len(d.rest) != 0 {
		return fmt.Errorf("%d bytes: %w", len(d.rest), ErrTrailingBytes)
	}
	return nil
}

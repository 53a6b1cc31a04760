package cstr

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("hello"),
		[]byte(""),
		[]byte("utf8 \xc3\xa9"),
		{0xff, 0xfe, 0x01},
	}

	for _, b := range inputs {
		c, err := New(b)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", b, err)
		}
		if !bytes.Equal(c.Bytes(), b) {
			t.Errorf("expected %q, got %q", b, c.Bytes())
		}
		with := c.BytesWithNul()
		if len(with) != len(b)+1 || with[len(with)-1] != 0 {
			t.Errorf("BytesWithNul malformed: %q", with)
		}
		c.Close()
	}
}

func TestNewInteriorNul(t *testing.T) {
	input := []byte("ab\x00cd")
	_, err := New(input)

	var nulErr *NulError
	if !errors.As(err, &nulErr) {
		t.Fatalf("expected NulError, got %v", err)
	}
	if nulErr.Pos != 2 {
		t.Errorf("expected position 2, got %d", nulErr.Pos)
	}
	if !bytes.Equal(nulErr.Bytes, input) {
		t.Errorf("error lost the original bytes: %q", nulErr.Bytes)
	}
}

func TestFromVecWithNul(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantPos int // -2 = success, -1 = not terminated, >=0 = interior nul
	}{
		{"valid", []byte("abc\x00"), -2},
		{"just terminator", []byte{0}, -2},
		{"not terminated", []byte("abc"), -1},
		{"empty", []byte{}, -1},
		{"interior nul", []byte("a\x00c\x00"), 1},
		{"nul at front", []byte("\x00bc\x00"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromVecWithNul(tt.input)
			if tt.wantPos == -2 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !bytes.Equal(c.Bytes(), tt.input[:len(tt.input)-1]) {
					t.Errorf("expected %q, got %q", tt.input[:len(tt.input)-1], c.Bytes())
				}
				c.Close()
				return
			}

			var vecErr *FromVecWithNulError
			if !errors.As(err, &vecErr) {
				t.Fatalf("expected FromVecWithNulError, got %v", err)
			}
			if vecErr.Err.Pos != tt.wantPos {
				t.Errorf("expected pos %d, got %d", tt.wantPos, vecErr.Err.Pos)
			}
			if !bytes.Equal(vecErr.Bytes, tt.input) {
				t.Errorf("error lost the original bytes: %q", vecErr.Bytes)
			}
		})
	}
}

func TestFromBytesWithNul(t *testing.T) {
	s, err := FromBytesWithNul([]byte("view\x00"))
	if err != nil {
		t.Fatalf("FromBytesWithNul failed: %v", err)
	}
	if !bytes.Equal(s.Bytes(), []byte("view")) {
		t.Errorf("expected view, got %q", s.Bytes())
	}

	if _, err := FromBytesWithNul([]byte("no terminator")); err == nil {
		t.Error("unterminated input accepted")
	}

	_, err = FromBytesWithNul([]byte("a\x00b\x00"))
	var nulErr *FromBytesWithNulError
	if !errors.As(err, &nulErr) || nulErr.Pos != 1 {
		t.Errorf("expected interior nul at 1, got %v", err)
	}
}

func TestCStrCompare(t *testing.T) {
	a, _ := FromBytesWithNul([]byte("abc\x00"))
	b, _ := FromBytesWithNul([]byte("abc\x00"))
	c, _ := FromBytesWithNul([]byte("abd\x00"))

	if !a.Equal(b) {
		t.Error("equal strings compared unequal")
	}
	if a.Equal(c) {
		t.Error("unequal strings compared equal")
	}
	if a.Compare(c) >= 0 {
		t.Error("expected abc < abd")
	}
}

func TestIntoString(t *testing.T) {
	c, _ := New([]byte("héllo"))
	s, err := c.IntoString()
	if err != nil {
		t.Fatalf("IntoString failed: %v", err)
	}
	if s != "héllo" {
		t.Errorf("expected héllo, got %q", s)
	}
}

func TestIntoStringInvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, 0xfe}
	c, _ := New(raw)
	defer c.Close()

	_, err := c.IntoString()
	var isErr *IntoStringError
	if !errors.As(err, &isErr) {
		t.Fatalf("expected IntoStringError, got %v", err)
	}
	if isErr.ValidUpTo != 2 {
		t.Errorf("expected valid-up-to 2, got %d", isErr.ValidUpTo)
	}
	if !bytes.Equal(isErr.Bytes, raw) {
		t.Errorf("error lost the original bytes: %q", isErr.Bytes)
	}

	// The CString stays usable for recovery after a failed conversion.
	if !bytes.Equal(c.Bytes(), raw) {
		t.Errorf("CString consumed by failed conversion: %q", c.Bytes())
	}
}

func TestCloseWipesFirstByte(t *testing.T) {
	c, _ := New([]byte("secret"))
	buf := c.BytesWithNul()

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if buf[0] != 0 {
		t.Error("first byte not wiped on Close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestUseAfterClosePanics(t *testing.T) {
	c, _ := New([]byte("x"))
	c.Close()

	defer func() {
		if recover() == nil {
			t.Error("Bytes after Close did not panic")
		}
	}()
	c.Bytes()
}

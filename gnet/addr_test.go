package gnet

import (
	"errors"
	"testing"
)

func TestParseSockAddr(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"127.0.0.1:8080", "127.0.0.1:8080", true},
		{"[::1]:443", "[::1]:443", true},
		{"256.0.0.1:80", "", false},
		{"127.0.0.1", "", false},
		{"127.0.0.1:port", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sa, err := ParseSockAddr(tt.input)
			if !tt.ok {
				var parseErr *AddrParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected AddrParseError, got %v", err)
				}
				if parseErr.Input != tt.input {
					t.Errorf("error lost the input: %q", parseErr.Input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSockAddr failed: %v", err)
			}
			if sa.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, sa.String())
			}
		})
	}
}

package env_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/deernetwork/enclstd/env"
)

func TestSplitJoinPathsRoundTrip(t *testing.T) {
	tests := []string{
		"/usr/bin:/bin:/usr/local/bin",
		"/usr/bin",
		"",
		"/a::/b", // empty entry survives
	}

	for _, s := range tests {
		entries := env.SplitPaths(s)
		joined, err := env.JoinPaths(entries)
		if err != nil {
			t.Fatalf("JoinPaths(%q) failed: %v", s, err)
		}
		if joined != s {
			t.Errorf("round trip of %q produced %q", s, joined)
		}
	}
}

func TestSplitPaths(t *testing.T) {
	got := env.SplitPaths("/usr/bin:/bin")
	want := []string{"/usr/bin", "/bin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestJoinPathsRejectsSeparatorEntry(t *testing.T) {
	_, err := env.JoinPaths([]string{"/usr/bin", "/evil:/path"})

	var joinErr *env.JoinPathsError
	if !errors.As(err, &joinErr) {
		t.Fatalf("expected JoinPathsError, got %v", err)
	}
	if joinErr.Entry != "/evil:/path" {
		t.Errorf("expected offending entry, got %q", joinErr.Entry)
	}
}

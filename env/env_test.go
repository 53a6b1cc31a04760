package env_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/deernetwork/enclstd/boundary"
	"github.com/deernetwork/enclstd/env"
	"github.com/deernetwork/enclstd/hostbridge"
)

func newEnv(t *testing.T) *env.Env {
	t.Helper()
	gate := boundary.NewGate(boundary.NewArena(boundary.DefaultArenaSize), hostbridge.New())
	return env.New(gate)
}

func TestVar(t *testing.T) {
	t.Setenv("ENCLSTD_TEST_VAR", "hello")
	e := newEnv(t)

	val, err := e.Var(context.Background(), "ENCLSTD_TEST_VAR")
	if err != nil {
		t.Fatalf("Var failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected hello, got %q", val)
	}
}

func TestVarNotPresent(t *testing.T) {
	e := newEnv(t)

	_, err := e.Var(context.Background(), "ENCLSTD_DEFINITELY_UNSET")
	if !errors.Is(err, env.ErrNotPresent) {
		t.Fatalf("expected ErrNotPresent, got %v", err)
	}
}

func TestVarEmptyValueIsPresent(t *testing.T) {
	t.Setenv("ENCLSTD_EMPTY", "")
	e := newEnv(t)

	val, err := e.Var(context.Background(), "ENCLSTD_EMPTY")
	if err != nil {
		t.Fatalf("Var failed: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty string, got %q", val)
	}
}

func TestVarNotUnicode(t *testing.T) {
	raw := []byte{0xff, 0xfe, 'x'}
	t.Setenv("ENCLSTD_BINARY", string(raw))
	e := newEnv(t)

	_, err := e.Var(context.Background(), "ENCLSTD_BINARY")
	var nu *env.NotUnicodeError
	if !errors.As(err, &nu) {
		t.Fatalf("expected NotUnicodeError, got %v", err)
	}
	if !bytes.Equal(nu.Raw, raw) {
		t.Errorf("error lost the raw bytes: %q", nu.Raw)
	}

	// VarOs hands the same bytes over without complaint.
	val, err := e.VarOs(context.Background(), "ENCLSTD_BINARY")
	if err != nil {
		t.Fatalf("VarOs failed: %v", err)
	}
	if !bytes.Equal(val, raw) {
		t.Errorf("expected %q, got %q", raw, val)
	}
}

func TestVarNulKeyNeverCrosses(t *testing.T) {
	// A gate with no bridge panics on any crossing, so the test fails
	// loudly if the nul-key check is not purely local.
	e := env.New(boundary.NewGate(boundary.NewArena(64), nil))

	_, err := e.VarOs(context.Background(), "BAD\x00KEY")
	if !errors.Is(err, env.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestSetUnset(t *testing.T) {
	t.Setenv("ENCLSTD_RW", "sentinel") // registers cleanup
	e := newEnv(t)
	ctx := context.Background()

	if err := e.Set(ctx, "ENCLSTD_RW", "written"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := os.Getenv("ENCLSTD_RW"); got != "written" {
		t.Errorf("host did not observe write: %q", got)
	}

	if err := e.Unset(ctx, "ENCLSTD_RW"); err != nil {
		t.Fatalf("Unset failed: %v", err)
	}
	if _, err := e.Var(ctx, "ENCLSTD_RW"); !errors.Is(err, env.ErrNotPresent) {
		t.Errorf("expected ErrNotPresent after Unset, got %v", err)
	}
}

func TestSetPanicsOnBadKey(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		key  string
	}{
		{"equals", "BAD=KEY"},
		{"nul", "BAD\x00KEY"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Set(%q) did not panic", tt.key)
				}
			}()
			e.Set(context.Background(), tt.key, "v")
		})
	}
}

func TestEnvironSnapshotIsImmutable(t *testing.T) {
	t.Setenv("ENCLSTD_SNAP", "before")
	e := newEnv(t)

	snapshot, err := e.Environ(context.Background())
	if err != nil {
		t.Fatalf("Environ failed: %v", err)
	}

	find := func(pairs []env.Pair, key string) (string, bool) {
		for _, p := range pairs {
			if string(p.Key) == key {
				return string(p.Value), true
			}
		}
		return "", false
	}

	if got, ok := find(snapshot, "ENCLSTD_SNAP"); !ok || got != "before" {
		t.Fatalf("snapshot missing seeded variable: %q %v", got, ok)
	}

	// Mutating the live environment must not show in the captured
	// snapshot.
	os.Setenv("ENCLSTD_SNAP", "after")
	if got, _ := find(snapshot, "ENCLSTD_SNAP"); got != "before" {
		t.Errorf("snapshot observed concurrent mutation: %q", got)
	}
}

func TestVars(t *testing.T) {
	t.Setenv("ENCLSTD_VARS", "text")
	e := newEnv(t)

	pairs, err := e.Vars(context.Background())
	if err != nil {
		t.Fatalf("Vars failed: %v", err)
	}
	found := false
	for _, p := range pairs {
		if p.Key == "ENCLSTD_VARS" && p.Value == "text" {
			found = true
		}
	}
	if !found {
		t.Error("Vars missing seeded variable")
	}
}

func TestGetwdChdir(t *testing.T) {
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	e := newEnv(t)
	ctx := context.Background()

	dir := t.TempDir()
	if err := e.Chdir(ctx, dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	got, err := e.Getwd(ctx)
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	// TempDir may sit behind a symlink; accept either spelling.
	real1, _ := os.Stat(got)
	real2, _ := os.Stat(dir)
	if !os.SameFile(real1, real2) {
		t.Errorf("expected wd %q, got %q", dir, got)
	}

	if err := e.Chdir(ctx, "/definitely/not/a/dir"); err == nil {
		t.Error("Chdir to missing dir succeeded")
	}
}

func TestHomeDir(t *testing.T) {
	t.Setenv("HOME", "/home/somebody")
	e := newEnv(t)

	dir, err := e.HomeDir(context.Background())
	if err != nil {
		t.Fatalf("HomeDir failed: %v", err)
	}
	if dir != "/home/somebody" {
		t.Errorf("expected /home/somebody, got %q", dir)
	}
}

func TestHomeDirUnset(t *testing.T) {
	t.Setenv("HOME", "placeholder")
	os.Unsetenv("HOME")
	e := newEnv(t)

	_, err := e.HomeDir(context.Background())
	if !errors.Is(err, env.ErrNotPresent) {
		t.Fatalf("expected ErrNotPresent, got %v", err)
	}
}

func TestTempDir(t *testing.T) {
	cases := []struct {
		name  string
		value string
		unset bool
		want  string
	}{
		{name: "set", value: "/var/tmp/scratch", want: "/var/tmp/scratch"},
		{name: "unset", unset: true, want: "/tmp"},
		{name: "empty", value: "", want: "/tmp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TMPDIR", tc.value)
			if tc.unset {
				os.Unsetenv("TMPDIR")
			}
			e := newEnv(t)

			dir, err := e.TempDir(context.Background())
			if err != nil {
				t.Fatalf("TempDir failed: %v", err)
			}
			if dir != tc.want {
				t.Errorf("expected %q, got %q", tc.want, dir)
			}
		})
	}
}

func TestCurrentExe(t *testing.T) {
	e := newEnv(t)

	got, err := e.CurrentExe(context.Background())
	if err != nil {
		t.Fatalf("CurrentExe failed: %v", err)
	}
	want, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// Package env provides boundary-mediated access to the process
// environment. Reads take a point-in-time copy from the host; writes go
// through the same call gate. No shared mutable global is exposed.
package env

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deernetwork/enclstd/boundary"
	"github.com/deernetwork/enclstd/ocall"
)

// Response capacities per operation. A value that does not fit surfaces as
// a capacity error from the gate rather than silent truncation.
const (
	valueRespCap = 32 << 10
	listRespCap  = 128 << 10
	pathRespCap  = 8 << 10
	errnoRespCap = 16
)

// Env issues environment operations through a call gate.
type Env struct {
	gate *boundary.Gate
}

// New binds an Env to its gate.
func New(gate *boundary.Gate) *Env {
	return &Env{gate: gate}
}

// Pair is one environment entry as raw bytes, not required to be UTF-8.
type Pair struct {
	Key   []byte
	Value []byte
}

// VarPair is one environment entry validated as UTF-8 text.
type VarPair struct {
	Key   string
	Value string
}

// VarOs returns the raw bytes of the variable named key, or ErrNotPresent.
// A key containing a nul byte is rejected locally and never crosses the
// boundary.
func (e *Env) VarOs(ctx context.Context, key string) ([]byte, error) {
	if err := checkKeyNul(key); err != nil {
		return nil, err
	}
	req := ocall.EnvGetRequest{Key: []byte(key)}
	payload, _ := req.MarshalBinary()
	raw, err := e.gate.Invoke(ctx, ocall.OpEnvGet, payload, valueRespCap)
	if err != nil {
		return nil, err
	}
	var resp ocall.EnvGetResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("env_get response: %w", err)
	}
	if !resp.Found {
		return nil, ErrNotPresent
	}
	return resp.Value, nil
}

// Var returns the variable named key as UTF-8 text. Invalid UTF-8 fails
// with *NotUnicodeError retaining the raw bytes.
func (e *Env) Var(ctx context.Context, key string) (string, error) {
	raw, err := e.VarOs(ctx, key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", &NotUnicodeError{Raw: raw}
	}
	return string(raw), nil
}

// Environ takes one boundary-mediated snapshot of the whole environment.
// The snapshot is a pure value: later mutations to the live environment do
// not show in it, and iterating it crosses the boundary zero times.
func (e *Env) Environ(ctx context.Context) ([]Pair, error) {
	raw, err := e.gate.Invoke(ctx, ocall.OpEnvList, nil, listRespCap)
	if err != nil {
		return nil, err
	}
	var resp ocall.EnvListResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("env_list response: %w", err)
	}
	pairs := make([]Pair, len(resp.Pairs))
	for i, p := range resp.Pairs {
		pairs[i] = Pair{Key: p.Key, Value: p.Value}
	}
	return pairs, nil
}

// Vars is Environ with every key and value validated as UTF-8.
func (e *Env) Vars(ctx context.Context) ([]VarPair, error) {
	pairs, err := e.Environ(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]VarPair, len(pairs))
	for i, p := range pairs {
		if !utf8.Valid(p.Key) {
			return nil, &NotUnicodeError{Raw: p.Key}
		}
		if !utf8.Valid(p.Value) {
			return nil, &NotUnicodeError{Raw: p.Value}
		}
		out[i] = VarPair{Key: string(p.Key), Value: string(p.Value)}
	}
	return out, nil
}

// Set writes one variable through the gate. It panics if key contains '='
// or a nul byte, or value contains a nul byte: those are programmer
// errors, not environmental conditions.
func (e *Env) Set(ctx context.Context, key, value string) error {
	checkVarName(key)
	if strings.IndexByte(value, 0) >= 0 {
		panic("env: value contains nul byte")
	}
	req := ocall.EnvSetRequest{Key: []byte(key), Value: []byte(value)}
	payload, _ := req.MarshalBinary()
	raw, err := e.gate.Invoke(ctx, ocall.OpEnvSet, payload, errnoRespCap)
	if err != nil {
		return err
	}
	return decodeErrno("setenv", raw)
}

// Unset removes one variable through the gate. The key contract matches
// Set.
func (e *Env) Unset(ctx context.Context, key string) error {
	checkVarName(key)
	req := ocall.EnvUnsetRequest{Key: []byte(key)}
	payload, _ := req.MarshalBinary()
	raw, err := e.gate.Invoke(ctx, ocall.OpEnvUnset, payload, errnoRespCap)
	if err != nil {
		return err
	}
	return decodeErrno("unsetenv", raw)
}

// Getwd returns the host's current working directory for this process.
func (e *Env) Getwd(ctx context.Context) (string, error) {
	raw, err := e.gate.Invoke(ctx, ocall.OpGetwd, nil, pathRespCap)
	if err != nil {
		return "", err
	}
	var resp ocall.GetwdResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("getwd response: %w", err)
	}
	if resp.Errno != 0 {
		return "", fmt.Errorf("getwd: %w", errnoErr(resp.Errno))
	}
	return string(resp.Path), nil
}

// Chdir changes the host's current working directory for this process.
func (e *Env) Chdir(ctx context.Context, dir string) error {
	req := ocall.ChdirRequest{Path: []byte(dir)}
	payload, _ := req.MarshalBinary()
	raw, err := e.gate.Invoke(ctx, ocall.OpChdir, payload, errnoRespCap)
	if err != nil {
		return err
	}
	return decodeErrno("chdir", raw)
}

// HomeDir returns the current user's home directory from $HOME. An unset
// variable reports ErrNotPresent like any other lookup.
func (e *Env) HomeDir(ctx context.Context) (string, error) {
	val, err := e.VarOs(ctx, "HOME")
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// TempDir returns the directory for temporary files: $TMPDIR when set and
// non-empty, otherwise /tmp.
func (e *Env) TempDir(ctx context.Context) (string, error) {
	val, err := e.VarOs(ctx, "TMPDIR")
	if errors.Is(err, ErrNotPresent) {
		return "/tmp", nil
	}
	if err != nil {
		return "", err
	}
	if len(val) == 0 {
		return "/tmp", nil
	}
	return string(val), nil
}

// CurrentExe returns the path of the running executable as the host
// reports it.
func (e *Env) CurrentExe(ctx context.Context) (string, error) {
	raw, err := e.gate.Invoke(ctx, ocall.OpCurrentExe, nil, pathRespCap)
	if err != nil {
		return "", err
	}
	var resp ocall.CurrentExeResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("current_exe response: %w", err)
	}
	if resp.Errno != 0 {
		return "", fmt.Errorf("current_exe: %w", errnoErr(resp.Errno))
	}
	return string(resp.Path), nil
}

func decodeErrno(op string, raw []byte) error {
	var resp ocall.ErrnoResponse
	if err := resp.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("%s response: %w", op, err)
	}
	if resp.Errno != 0 {
		return fmt.Errorf("%s: %w", op, errnoErr(resp.Errno))
	}
	return nil
}

func checkKeyNul(key string) error {
	if i := strings.IndexByte(key, 0); i >= 0 {
		return fmt.Errorf("variable name %q at position %d: %w", key, i, ErrInvalidName)
	}
	return nil
}

func checkVarName(key string) {
	if key == "" {
		panic("env: empty variable name")
	}
	if strings.IndexByte(key, '=') >= 0 {
		panic("env: variable name contains '='")
	}
	if strings.IndexByte(key, 0) >= 0 {
		panic("env: variable name contains nul byte")
	}
}

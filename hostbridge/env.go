package hostbridge

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/deernetwork/enclstd/ocall"
)

// envHost services environment ops against the real process environment.
// The mutex serializes writes against snapshots so EnvList sees a
// consistent point in time.
type envHost struct {
	mu sync.Mutex
}

func (h *envHost) get(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.EnvGetRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	h.mu.Lock()
	val, found := os.LookupEnv(string(m.Key))
	h.mu.Unlock()

	resp := ocall.EnvGetResponse{Found: found, Value: []byte(val)}
	out, _ := resp.MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) set(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.EnvSetRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	h.mu.Lock()
	err := os.Setenv(string(m.Key), string(m.Value))
	h.mu.Unlock()

	out, _ := (&ocall.ErrnoResponse{Errno: errnoOf(err)}).MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) unset(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.EnvUnsetRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}

	h.mu.Lock()
	err := os.Unsetenv(string(m.Key))
	h.mu.Unlock()

	out, _ := (&ocall.ErrnoResponse{Errno: errnoOf(err)}).MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) list(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	if len(req) != 0 {
		return nil, ocall.StatusBadRequest
	}

	h.mu.Lock()
	environ := os.Environ()
	h.mu.Unlock()

	resp := ocall.EnvListResponse{Pairs: make([]ocall.EnvPair, 0, len(environ))}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		resp.Pairs = append(resp.Pairs, ocall.EnvPair{Key: []byte(key), Value: []byte(value)})
	}
	out, _ := resp.MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) getwd(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	if len(req) != 0 {
		return nil, ocall.StatusBadRequest
	}
	dir, err := os.Getwd()
	resp := ocall.GetwdResponse{Errno: errnoOf(err), Path: []byte(dir)}
	out, _ := resp.MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) currentExe(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	if len(req) != 0 {
		return nil, ocall.StatusBadRequest
	}
	path, err := os.Executable()
	resp := ocall.CurrentExeResponse{Errno: errnoOf(err), Path: []byte(path)}
	out, _ := resp.MarshalBinary()
	return out, ocall.StatusOK
}

func (h *envHost) chdir(ctx context.Context, req []byte) ([]byte, ocall.Status) {
	var m ocall.ChdirRequest
	if err := m.UnmarshalBinary(req); err != nil {
		return nil, ocall.StatusBadRequest
	}
	err := os.Chdir(string(m.Path))
	out, _ := (&ocall.ErrnoResponse{Errno: errnoOf(err)}).MarshalBinary()
	return out, ocall.StatusOK
}

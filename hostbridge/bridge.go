package hostbridge

import (
	"context"
	"sync"

	"github.com/deernetwork/enclstd/ocall"
)

// Handler services one operation. It receives a private copy of the
// request payload and returns the response payload; a nonzero status voids
// the response.
type Handler func(ctx context.Context, req []byte) ([]byte, ocall.Status)

// Registry maps operation codes to handlers.
type Registry struct {
	mu    sync.RWMutex
	funcs map[ocall.Op]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[ocall.Op]Handler)}
}

// Register installs or replaces the handler for op.
func (r *Registry) Register(op ocall.Op, h Handler) {
	r.mu.Lock()
	r.funcs[op] = h
	r.mu.Unlock()
}

// Get returns the handler for op.
func (r *Registry) Get(op ocall.Op) (Handler, bool) {
	r.mu.RLock()
	h, ok := r.funcs[op]
	r.mu.RUnlock()
	return h, ok
}

// Ops returns the registered operation codes.
func (r *Registry) Ops() []ocall.Op {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]ocall.Op, 0, len(r.funcs))
	for op := range r.funcs {
		ops = append(ops, op)
	}
	return ops
}

// Dispatcher implements boundary.Bridge over a registry. It copies the
// request out of the shared region before any handler sees it and writes
// the response back only if it fits the claimed region.
type Dispatcher struct {
	registry *Registry
}

// New builds a dispatcher with the full host handler set: environment,
// working directory, resolution, and sockets.
func New(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := NewRegistry()

	eh := &envHost{}
	r.Register(ocall.OpEnvGet, eh.get)
	r.Register(ocall.OpEnvSet, eh.set)
	r.Register(ocall.OpEnvUnset, eh.unset)
	r.Register(ocall.OpEnvList, eh.list)
	r.Register(ocall.OpGetwd, eh.getwd)
	r.Register(ocall.OpChdir, eh.chdir)
	r.Register(ocall.OpCurrentExe, eh.currentExe)

	r.Register(ocall.OpResolve, newResolveHandler(cfg.lookup))
	registerNet(r)

	return &Dispatcher{registry: r}
}

// NewDispatcher wraps an existing registry.
func NewDispatcher(r *Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Registry exposes the dispatcher's registry for custom ops.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch implements boundary.Bridge.
func (d *Dispatcher) Dispatch(ctx context.Context, op ocall.Op, req, resp []byte) (int, ocall.Status) {
	h, ok := d.registry.Get(op)
	if !ok {
		return 0, ocall.StatusBadOp
	}

	in := append([]byte(nil), req...)
	out, status := h(ctx, in)
	if status != ocall.StatusOK {
		return 0, status
	}
	if len(out) > len(resp) {
		return 0, ocall.StatusOverflow
	}
	copy(resp, out)
	return len(out), ocall.StatusOK
}

// Option configures the dispatcher.
type Option func(*config)

type config struct {
	lookup LookupFunc
}

func defaultConfig() config {
	return config{lookup: defaultLookup}
}

// WithLookup substitutes the hostname resolver, mainly for tests.
func WithLookup(fn LookupFunc) Option {
	return func(c *config) {
		c.lookup = fn
	}
}

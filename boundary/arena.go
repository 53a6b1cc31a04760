package boundary

import (
	"fmt"
	"sync"
)

// DefaultArenaSize is a comfortable default for the shared arena: large
// enough for a full environment snapshot or a 64 KiB socket read with
// headroom for concurrent crossings.
const DefaultArenaSize = 256 << 10

// Arena is the shared buffer both sides of the boundary can see. Regions
// are claimed per crossing and are exclusive until released; the free list
// is first-fit with coalescing.
type Arena struct {
	mu   sync.Mutex
	buf  []byte
	free []span
}

type span struct {
	off int
	n   int
}

// NewArena allocates a shared arena of the given capacity.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = DefaultArenaSize
	}
	return &Arena{
		buf:  make([]byte, size),
		free: []span{{off: 0, n: size}},
	}
}

// Cap returns the arena's total capacity.
func (a *Arena) Cap() int { return len(a.buf) }

// Claim reserves an exclusive region of n bytes. It fails with
// ErrCapacityExceeded when no free span is large enough.
func (a *Arena) Claim(n int) (*Region, error) {
	if n < 0 {
		return nil, fmt.Errorf("boundary: negative claim %d", n)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.free {
		if a.free[i].n < n {
			continue
		}
		off := a.free[i].off
		a.free[i].off += n
		a.free[i].n -= n
		if a.free[i].n == 0 {
			a.free = append(a.free[:i], a.free[i+1:]...)
		}
		return &Region{arena: a, off: off, n: n}, nil
	}
	return nil, fmt.Errorf("claim %d of %d bytes: %w", n, len(a.buf), ErrCapacityExceeded)
}

// CopyOut claims a region and copies p into it: the only way
// enclave-private bytes ever reach host-visible memory.
func (a *Arena) CopyOut(p []byte) (*Region, error) {
	r, err := a.Claim(len(p))
	if err != nil {
		return nil, err
	}
	copy(a.buf[r.off:r.off+r.n], p)
	return r, nil
}

func (a *Arena) release(r *Region) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.n > 0 {
		clear(a.buf[r.off : r.off+r.n])
	}

	// Insert sorted by offset, then coalesce with both neighbors.
	i := 0
	for i < len(a.free) && a.free[i].off < r.off {
		i++
	}
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = span{off: r.off, n: r.n}

	if i+1 < len(a.free) && a.free[i].off+a.free[i].n == a.free[i+1].off {
		a.free[i].n += a.free[i+1].n
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].n == a.free[i].off {
		a.free[i-1].n += a.free[i].n
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// Region is one claimed, per-call-exclusive slice of the arena.
type Region struct {
	arena    *Arena
	off, n   int
	released bool
}

// Len returns the region's claimed length.
func (r *Region) Len() int { return r.n }

// Bytes returns the host-visible view of the region. The contents are
// shared memory: anything read from it must go through CopyIn before it is
// trusted.
func (r *Region) Bytes() []byte {
	if r.released {
		panic("boundary: Bytes on released region")
	}
	return r.arena.buf[r.off : r.off+r.n]
}

// CopyIn copies `declared` bytes from the region into fresh enclave-private
// memory. The declared length comes from the untrusted side and is
// validated against the claimed region before a single byte is copied.
func (r *Region) CopyIn(declared int) ([]byte, error) {
	if r.released {
		return nil, ErrClosedRegion
	}
	if declared < 0 || declared > r.n {
		return nil, fmt.Errorf("declared %d, claimed %d: %w", declared, r.n, ErrUntrustedSizeMismatch)
	}
	p := make([]byte, declared)
	copy(p, r.arena.buf[r.off:r.off+declared])
	return p, nil
}

// Release wipes the region and returns it to the arena. Safe to call more
// than once.
func (r *Region) Release() {
	if r.released {
		return
	}
	r.released = true
	r.arena.release(r)
}

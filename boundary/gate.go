package boundary

import (
	"context"
	"fmt"

	"github.com/deernetwork/enclstd/ocall"
)

// Bridge is the untrusted far side of the boundary. req and resp are views
// of the shared arena; the bridge may read req, must write only into resp,
// and reports how many response bytes it produced plus a status word.
// Everything it returns is unvalidated.
type Bridge interface {
	Dispatch(ctx context.Context, op ocall.Op, req, resp []byte) (respLen int, status ocall.Status)
}

// Gate issues boundary crossings. Each Invoke is one synchronous crossing:
// it blocks the calling goroutine until the bridge returns, and crossings
// from one goroutine complete in the order issued. Distinct goroutines may
// cross concurrently; their arena regions are disjoint.
type Gate struct {
	arena  *Arena
	bridge Bridge
}

// NewGate binds a gate to its arena and bridge.
func NewGate(arena *Arena, bridge Bridge) *Gate {
	return &Gate{arena: arena, bridge: bridge}
}

// ArenaCap returns the capacity of the underlying shared arena.
func (g *Gate) ArenaCap() int { return g.arena.Cap() }

// Invoke performs one crossing: request out, dispatch, response in.
//
// The status word is checked before the payload. On any nonzero status the
// payload is discarded unread and the call fails with *HostRejectedError.
// On success the host-declared response length is validated against the
// claimed region; disagreement fails with ErrUntrustedSizeMismatch. Both
// regions are wiped and released on every path.
func (g *Gate) Invoke(ctx context.Context, op ocall.Op, request []byte, respCap int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := g.arena.CopyOut(request)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer req.Release()

	resp, err := g.arena.Claim(respCap)
	if err != nil {
		return nil, fmt.Errorf("%s response: %w", op, err)
	}
	defer resp.Release()

	n, status := g.bridge.Dispatch(ctx, op, req.Bytes(), resp.Bytes())
	if status != ocall.StatusOK {
		return nil, &HostRejectedError{Op: op, Code: status}
	}

	payload, err := resp.CopyIn(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payload, nil
}

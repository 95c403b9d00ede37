package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

// Navigator keeps the current location. Every move goes through the guard.
type Navigator struct {
	guard  *Guard
	logger logging.Logger

	mu      sync.Mutex
	current Decision
}

func NewNavigator(guard *Guard, logger logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Navigator{guard: guard, logger: logger.With("component", "router")}
}

// Go resolves requested and moves there.
func (n *Navigator) Go(ctx context.Context, requested string) Decision {
	d := n.guard.Resolve(requested)

	n.mu.Lock()
	n.current = d
	n.mu.Unlock()

	if d.Redirected {
		n.logger.Debug(ctx, "navigation redirected", "requested", requested, "to", d.Path, "reason", d.Reason)
	}
	return d
}

// Refresh re-resolves the current location after the auth state changed.
func (n *Navigator) Refresh(ctx context.Context) Decision {
	return n.Go(ctx, n.Current().Path)
}

// Current returns the last decision.
func (n *Navigator) Current() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

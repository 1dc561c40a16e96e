package curated

import "context"

// refreshGate admits one refresh at a time.
type refreshGate struct {
	ch chan struct{}
}

func newRefreshGate() *refreshGate {
	return &refreshGate{ch: make(chan struct{}, 1)}
}

func (g *refreshGate) Acquire(ctx context.Context) error {
	select {
	case g.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *refreshGate) Release() {
	select {
	case <-g.ch:
	default:
	}
}

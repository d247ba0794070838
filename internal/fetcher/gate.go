package fetcher

import (
	"context"
	"time"
)

// Gate enforces the politeness delay. It admits one request at a time and
// holds each start until delay has passed since the previous request
// finished. The first request waits delay from the gate's creation. A Gate
// may be shared by several fetchers, which then share one budget.
type Gate struct {
	delay time.Duration
	slot  chan struct{}
	// last is only read or written while holding slot.
	last time.Time
}

// NewGate creates a Gate with the given minimum gap.
func NewGate(delay time.Duration) *Gate {
	return &Gate{
		delay: max(delay, 0),
		slot:  make(chan struct{}, 1),
		last:  time.Now(),
	}
}

// Acquire blocks until a request may start. The returned release must be
// called once the response has been read; it stamps the end of the request.
func (g *Gate) Acquire(ctx context.Context) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if wait := g.delay - time.Since(g.last); wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			<-g.slot
			return nil, ctx.Err()
		}
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		g.last = time.Now()
		<-g.slot
	}, nil
}

package service

import (
	"context"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// DefaultHousekeepingInterval is how often expired denylist rows are swept.
const DefaultHousekeepingInterval = time.Hour

// HousekeepingService periodically deletes revoked-token rows whose tokens
// have expired anyway. The denylist stays small and lookups stay cheap.
type HousekeepingService struct {
	Store    store.Store
	Interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs one sweep synchronously, then launches the background
// sweeper. Call Stop to shut it down.
func (s *HousekeepingService) Start(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	// The first sweep completes before Start returns; an immediate Stop
	// cannot cancel it out from under us.
	s.sweep(ctx)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop cancels the sweeper and waits for the current sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	if err := s.Store.RevokedTokens().DeleteExpiredRevokedTokens(ctx); err != nil {
		slogx.FromContext(ctx).Error("revoked token sweep failed", "err", err)
	}
}

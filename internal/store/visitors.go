package store

import (
	"context"
	"time"
)

// DefaultVisitorInterval is how often the live visitor counter drifts.
const DefaultVisitorInterval = 5 * time.Second

// RunVisitorTicker nudges the store's visitor counter by -1, 0 or +1 on
// every tick until ctx is cancelled. The counter is cosmetic.
func RunVisitorTicker(ctx context.Context, s *Store, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultVisitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.mu.Lock()
			delta := s.rng.IntN(3) - 1
			s.mu.Unlock()
			if err := s.IncrementVisitors(delta); err != nil {
				s.logger.Warn("visitor tick", "error", err)
			}
		}
	}
}

package workspace

import (
	"context"
	"time"

	"github.com/RA1LGUN/AudioClipTool/logger"
)

// StartSweeper runs Sweep on a fixed interval until ctx is cancelled.
//
// A sweep running concurrently with an in-progress read of the same handle is
// an accepted race: Resolve advances the asset mtime, so only handles that
// have been idle for a full TTL are deleted, which keeps the window narrow
// without per-handle locking.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("workspace sweeper started",
			logger.Duration("interval", interval),
			logger.Duration("ttl", s.ttl))

		for {
			select {
			case <-ctx.Done():
				logger.Info("workspace sweeper stopped")
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Package cleanup runs the periodic retention sweep over uploaded
// documents.
package cleanup

import (
	"context"
	"time"

	"github.com/cvlens/cvlens/internal/core/storage"
	"github.com/rs/zerolog/log"
)

// Run sweeps uploads older than maxAge every interval until ctx is done.
// Analysis records are untouched; only the files on disk expire.
func Run(ctx context.Context, uploads *storage.Local, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := uploads.SweepOlderThan(maxAge)
			if err != nil {
				log.Warn().Err(err).Msg("upload sweep failed")
				continue
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("swept expired uploads")
			}
		}
	}
}

package archive

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/pkg/logger"
)

// Sweeper periodically reclaims staging scopes left behind by interrupted
// requests. Builds clean up after themselves; the sweep is a safety net.
type Sweeper struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
}

// NewSweeper creates a sweeper over dir, removing entries whose
// modification time is older than retention
func NewSweeper(dir string, retention, interval time.Duration, lgr *logger.Logger) *Sweeper {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Sweeper{
		dir:       dir,
		retention: retention,
		interval:  interval,
		logger:    lgr,
	}
}

// Run sweeps on a fixed schedule until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Info("running archive retention sweep")
			s.Sweep(time.Now())
		}
	}
}

// Sweep removes every entry in the staging directory older than the
// retention window, measured against now. Idempotent.
func (s *Sweeper) Sweep(now time.Time) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read staging directory", zap.Error(err))
		}
		return
	}

	for _, entry := range entries {
		path := filepath.Join(s.dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			s.logger.Error("failed to stat staging entry",
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		if now.Sub(info.ModTime()) <= s.retention {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			s.logger.Error("failed to remove stale staging entry",
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		s.logger.Info("removed stale staging entry", zap.String("path", path))
	}
}

package render

// sweeper.go releases canvases that clients abandoned.
//
// Browsers rarely send the DELETE for a canvas, so the server runs a
// long-lived sweeper that drops canvases idle for longer than MaxIdle. It
// stops when its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// SweepConfig holds the sweeper settings. Zero values take defaults.
type SweepConfig struct {
	MaxIdle  time.Duration // Idle time before a canvas is released (default: 30m)
	Interval time.Duration // How often to sweep (default: 1m)
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.MaxIdle <= 0 {
		c.MaxIdle = 30 * time.Minute
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	return c
}

// StartSweeper blocks, sweeping idle canvases every Interval until ctx is
// cancelled.
func (reg *Registry) StartSweeper(ctx context.Context, cfg SweepConfig) {
	cfg = cfg.withDefaults()
	slog.Info("canvas sweeper started",
		"max_idle", cfg.MaxIdle.String(),
		"interval", cfg.Interval.String(),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("canvas sweeper stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if n := reg.Sweep(cfg.MaxIdle); n > 0 {
				slog.Info("released idle canvases",
					"released", n,
					"remaining", reg.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

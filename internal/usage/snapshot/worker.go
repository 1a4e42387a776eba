package snapshot

import (
	"context"
	"time"

	"github.com/telvoralabs/telvora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Worker periodically appends a new snapshot generation.
type Worker struct {
	refresher *Refresher
	log       *zap.Logger
	interval  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(lc fx.Lifecycle, cfg config.Config, refresher *Refresher, log *zap.Logger) *Worker {
	w := &Worker{
		refresher: refresher,
		log:       log.Named("usage.snapshot.worker"),
		interval:  time.Duration(cfg.Snapshot.IntervalSeconds) * time.Second,
		done:      make(chan struct{}),
	}
	if !cfg.Snapshot.Enabled {
		return w
	}
	if w.interval <= 0 {
		w.interval = time.Hour
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			w.cancel = cancel
			go w.run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if w.cancel != nil {
				w.cancel()
			}
			select {
			case <-w.done:
			case <-ctx.Done():
			}
			return nil
		},
	})
	return w
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.refresher.RunOnce(ctx); err != nil {
				w.log.Error("snapshot refresh failed", zap.Error(err))
			}
		}
	}
}

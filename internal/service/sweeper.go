package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper purges expired sessions on a fixed interval until its context ends.
type Sweeper struct {
	store SessionStore
	every time.Duration
	log   *zap.Logger
}

// NewSweeper constructs a Sweeper.
func NewSweeper(store SessionStore, every time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{store: store, every: every, log: log}
}

// Run blocks, sweeping once per interval. It returns when ctx is done.
func (w *Sweeper) Run(ctx context.Context) {
	if w.every <= 0 {
		return
	}
	t := time.NewTicker(w.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	n, err := w.store.PurgeExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("session sweep failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		w.log.Info("expired sessions purged", zap.Int64("count", n))
	}
}

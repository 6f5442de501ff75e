package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/glotline/smart-translate/internal/logger"
)

// Sweeper periodically evicts history records older than the retention
// window. A retention of zero days disables the sweep.
type Sweeper struct {
	store         *Store
	retentionDays int
	cron          *cron.Cron
	logger        *logger.Logger
}

func NewSweeper(store *Store, retentionDays int, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:         store,
		retentionDays: retentionDays,
		cron:          cron.New(),
		logger:        log.WithComponent("history-sweeper"),
	}
}

// Start schedules the nightly sweep. It runs one sweep immediately so a
// restarted process does not wait a day to honor retention.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.retentionDays <= 0 {
		s.logger.Info("history retention disabled, sweeper not started")
		return nil
	}

	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.sweep(ctx)

	s.logger.Info("history sweeper started",
		slog.Int("retention_days", s.retentionDays))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)

	removed, err := s.store.DeleteWhere(ctx, func(r Record) bool {
		return r.Timestamp.Before(cutoff)
	})
	if err != nil {
		s.logger.LogError(ctx, err, "history sweep failed")
		return
	}

	if removed > 0 {
		s.logger.Info("history sweep evicted expired records",
			slog.Int("removed", removed),
			slog.Time("cutoff", cutoff))
	}
}

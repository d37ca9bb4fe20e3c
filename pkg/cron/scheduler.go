// Package cron runs scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/nmalhotra/statement-core/internal/domain/categorization"
)

// Scheduler keeps the category suggestion index in sync with the taxonomy.
// Taxonomies are configuration data that can change between runs, so the
// index is rebuilt on a schedule instead of on every query.
type Scheduler struct {
	cron     *cron.Cron
	index    *categorization.SuggestIndex
	taxonomy func() categorization.Taxonomy
	logger   *slog.Logger
}

// NewScheduler builds the scheduler. The taxonomy function is invoked at
// each refresh so reloaded configuration is picked up.
func NewScheduler(index *categorization.SuggestIndex, taxonomy func() categorization.Taxonomy, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		index:    index,
		taxonomy: taxonomy,
		logger:   logger,
	}
}

// Start registers the refresh job and begins the schedule. The index is
// refreshed once immediately so queries work before the first tick.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refreshIndex); err != nil {
		return err
	}

	s.refreshIndex()
	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("refresh_spec", spec))
	return nil
}

// Stop halts the schedule and returns a context that completes when
// running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers an immediate refresh outside the schedule.
func (s *Scheduler) RunNow() {
	go s.refreshIndex()
}

func (s *Scheduler) refreshIndex() {
	taxonomy := s.taxonomy()
	if err := s.index.Reindex(taxonomy); err != nil {
		s.logger.Error("suggestion index refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Info("suggestion index refreshed", slog.Int("categories", len(taxonomy)))
}

// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the nightly retention sweep over analytics and
// event log rows.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kasaserena/serena-go/internal/store"
)

// Retention windows.
const (
	aiRequestRetention = 90 * 24 * time.Hour
	eventRetention     = 180 * 24 * time.Hour
)

// Scheduler owns the cron jobs.
type Scheduler struct {
	st   store.Storage
	cron *cron.Cron
	log  *slog.Logger
}

// New creates a scheduler instance.
func New(st store.Storage, log *slog.Logger) *Scheduler {
	return &Scheduler{
		st:   st,
		cron: cron.New(),
		log:  log,
	}
}

// Start registers the retention job (03:00 daily) and starts the cron
// loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.RunRetention(context.Background()); err != nil {
			s.log.Error("retention sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// RunRetention deletes analytics and event rows past their retention
// windows.
func (s *Scheduler) RunRetention(ctx context.Context) error {
	now := time.Now().UTC()

	aiDeleted, err := s.st.DeleteAIRequestsBefore(ctx, now.Add(-aiRequestRetention))
	if err != nil {
		return err
	}
	eventsDeleted, err := s.st.DeleteEventsBefore(ctx, now.Add(-eventRetention))
	if err != nil {
		return err
	}

	if aiDeleted > 0 || eventsDeleted > 0 {
		s.log.Info("retention sweep complete",
			"ai_requests_deleted", aiDeleted,
			"events_deleted", eventsDeleted)
	}
	return nil
}

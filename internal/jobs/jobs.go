// Package jobs runs the scheduled maintenance work: flipping unpaid
// invoices past their due date to overdue and sweeping expired sessions.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/store"
)

// Runner owns the cron scheduler.
type Runner struct {
	cron  *cron.Cron
	store store.Store
	log   *zap.Logger
}

func New(st store.Store, log *zap.Logger) *Runner {
	return &Runner{cron: cron.New(), store: st, log: log}
}

// Start registers the hourly jobs and launches the scheduler.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc("@hourly", r.sweepOverdueInvoices); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("@hourly", r.sweepExpiredSessions); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) sweepOverdueInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := r.store.MarkOverdueInvoices(ctx, time.Now().UTC())
	if err != nil {
		r.log.Error("overdue invoice sweep", zap.Error(err))
		return
	}
	if n > 0 {
		r.log.Info("marked invoices overdue", zap.Int64("count", n))
	}
}

func (r *Runner) sweepExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := r.store.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		r.log.Error("expired session sweep", zap.Error(err))
		return
	}
	if n > 0 {
		r.log.Info("deleted expired sessions", zap.Int64("count", n))
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
)

// defaultRunnerWorkers bounds the fan-out of one sweep. Per-investor
// serialization comes from the repository row lock, not from this bound.
const defaultRunnerWorkers = 8

// ProfitRunner advances profit accrual and due-payment reminders on a
// recurring cadence. A daily run is sufficient given the 90-day profit
// granularity; re-running early is a no-op per investor.
type ProfitRunner struct {
	investorRepo portsrepo.InvestorReader
	profitSvc    portssvc.InvestorProfitSvc
	reminderSvc  portssvc.ReminderSvc
	logger       *slog.Logger

	interval     time.Duration
	reminderDays int
	workers      int
}

// NewProfitRunner creates a runner with the given cadence.
func NewProfitRunner(
	investorRepo portsrepo.InvestorReader,
	profitSvc portssvc.InvestorProfitSvc,
	reminderSvc portssvc.ReminderSvc,
	logger *slog.Logger,
	interval time.Duration,
	reminderDays int,
) *ProfitRunner {
	return &ProfitRunner{
		investorRepo: investorRepo,
		profitSvc:    profitSvc,
		reminderSvc:  reminderSvc,
		logger:       logger,
		interval:     interval,
		reminderDays: reminderDays,
		workers:      defaultRunnerWorkers,
	}
}

// Start runs one sweep immediately and then on every tick until ctx is
// cancelled. It blocks; run it on its own goroutine.
func (r *ProfitRunner) Start(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Profit runner stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep: quarterly profit for every investor in
// parallel, then the due-payment reminder pass. Failures on one investor
// never block the others.
func (r *ProfitRunner) RunOnce(ctx context.Context) {
	start := time.Now()

	investorIDs, err := r.investorRepo.ListInvestorIDs(ctx)
	if err != nil {
		r.logger.Error("Profit sweep aborted, cannot list investors", slog.String("error", err.Error()))
		return
	}

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	accrued := 0

	for _, id := range investorIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(investorID string) {
			defer wg.Done()
			defer func() { <-sem }()

			profit, err := r.profitSvc.CalculateQuarterlyProfit(ctx, investorID)
			if err != nil {
				// A checkpoint conflict means another writer already accrued
				// this window; that is the idempotence guard working.
				if errors.Is(err, apperrors.ErrConflict) {
					return
				}
				r.logger.Error("Profit calculation failed",
					slog.String("investor_id", investorID),
					slog.String("error", err.Error()))
				return
			}
			if profit.IsPositive() {
				mu.Lock()
				accrued++
				mu.Unlock()
				r.logger.Info("Quarterly profit accrued",
					slog.String("investor_id", investorID),
					slog.String("profit", profit.StringFixed(2)))
			}
		}(id)
	}
	wg.Wait()

	sent, err := r.reminderSvc.SendDueReminders(ctx, r.reminderDays)
	if err != nil {
		r.logger.Error("Reminder pass failed", slog.String("error", err.Error()))
	}

	r.logger.Info("Periodic sweep completed",
		slog.Int("investors", len(investorIDs)),
		slog.Int("accruals", accrued),
		slog.Int("reminders_sent", sent),
		slog.Duration("elapsed", time.Since(start)))
}

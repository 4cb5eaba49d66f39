// Package billing runs the daily membership billing job.
package billing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gymflow/internal/ledger"
	"gymflow/internal/logger"
	"gymflow/internal/metrics"

	"github.com/teambition/rrule-go"
)

var ErrRunInProgress = errors.New("billing run already in progress")

const DefaultSchedule = "FREQ=DAILY;BYHOUR=3;BYMINUTE=0;BYSECOND=0"

// Ledger is the slice of ledger.Service a run needs.
type Ledger interface {
	Today() time.Time
	DueAccounts(ctx context.Context, today time.Time) ([]int, error)
	ChargeIfDue(ctx context.Context, userID int, today time.Time) (*ledger.ChargeResult, error)
}

type Report struct {
	Date           time.Time     `json:"date"`
	Due            int           `json:"due"`
	Charged        int           `json:"charged"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	FailedAccounts []int         `json:"failed_accounts,omitempty"`
	ChargedCents   int64         `json:"charged_cents"`
	Duration       time.Duration `json:"duration_ns" swaggertype:"integer"`
}

type Config struct {
	// Schedule is an RRULE; empty means DefaultSchedule.
	Schedule   string
	Location   *time.Location
	RunOnStart bool
}

type Scheduler struct {
	ledger     Ledger
	locker     Locker
	rule       *rrule.RRule
	runOnStart bool

	running atomic.Bool
	now     func() time.Time
}

// NewScheduler parses the schedule and anchors it at midnight of the current
// day in cfg.Location, so BYHOUR and friends are read as local wall-clock
// time. locker may be nil for single-instance deployments.
func NewScheduler(l Ledger, locker Locker, cfg Config) (*Scheduler, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	rule, err := rrule.StrToRRule(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse billing schedule %q: %w", cfg.Schedule, err)
	}

	now := time.Now().In(cfg.Location)
	y, m, d := now.Date()
	rule.DTStart(time.Date(y, m, d, 0, 0, 0, 0, cfg.Location))

	return &Scheduler{
		ledger:     l,
		locker:     locker,
		rule:       rule,
		runOnStart: cfg.RunOnStart,
		now:        time.Now,
	}, nil
}

// Next returns the first scheduled run strictly after t, or the zero time if
// the schedule is exhausted.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.rule.After(t, false)
}

// Start triggers RunDailyBilling on the schedule until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	logger.Info("Billing scheduler started", "schedule", s.rule.String())

	if s.runOnStart {
		s.runAndLog(ctx)
	}

	for {
		next := s.Next(s.now())
		if next.IsZero() {
			logger.Warn("Billing schedule has no further occurrences")
			<-ctx.Done()
			return nil
		}
		logger.Debug("Next billing run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Billing scheduler stopped")
			return nil
		case <-timer.C:
			s.runAndLog(ctx)
		}
	}
}

func (s *Scheduler) runAndLog(ctx context.Context) {
	if _, err := s.RunDailyBilling(ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			logger.Info("Billing run skipped, another run is in progress")
			return
		}
		logger.Error("Billing run failed", "error", err)
	}
}

// RunDailyBilling charges every account due today. Accounts are charged one
// at a time, each in its own transaction; a failing account is recorded in
// the report and the run moves on.
func (s *Scheduler) RunDailyBilling(ctx context.Context) (Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.RecordBillingRun("skipped", 0)
		return Report{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx)
		if err != nil {
			metrics.RecordBillingRun("failed", 0)
			return Report{}, err
		}
		if !ok {
			metrics.RecordBillingRun("skipped", 0)
			return Report{}, ErrRunInProgress
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				logger.Warn("Failed to release billing lock", "error", err)
			}
		}()
	}

	started := s.now()
	report := Report{Date: s.ledger.Today()}

	ids, err := s.ledger.DueAccounts(ctx, report.Date)
	if err != nil {
		metrics.RecordBillingRun("failed", s.now().Sub(started).Seconds())
		return report, err
	}
	report.Due = len(ids)
	logger.Info("Billing run started", "date", report.Date.Format("2006-01-02"), "due", report.Due)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			report.Duration = s.now().Sub(started)
			metrics.RecordBillingRun("interrupted", report.Duration.Seconds())
			return report, err
		}

		res, err := s.ledger.ChargeIfDue(ctx, id, report.Date)
		switch {
		case errors.Is(err, ledger.ErrAlreadyCharged):
			report.Skipped++
		case err != nil:
			report.Failed++
			report.FailedAccounts = append(report.FailedAccounts, id)
			metrics.RecordBillingFailure()
			logger.Error("Failed to bill account", "account_id", id, "error", err)
		case res == nil:
			report.Skipped++
		default:
			report.Charged++
			report.ChargedCents += res.Charge.AmountCents
		}
	}

	report.Duration = s.now().Sub(started)
	status := "completed"
	if report.Failed > 0 {
		status = "partial"
	}
	metrics.RecordBillingRun(status, report.Duration.Seconds())
	logger.Info("Billing run finished",
		"status", status,
		"charged", report.Charged,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"charged_cents", report.ChargedCents,
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, nil
}

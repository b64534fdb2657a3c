// Package jobs runs the scheduled risk scan that emails users whose forecast
// breaches the low balance or overdraft threshold.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
)

// Recipients lists users who can receive alerts
type Recipients interface {
	ListAlertRecipients(ctx context.Context) ([]models.User, error)
}

// Forecaster produces a user's cash-flow forecast
type Forecaster interface {
	ForecastCashFlow(ctx context.Context, userID int64, months int) (*models.CashFlowForecast, error)
}

// AlertSender delivers a risk alert
type AlertSender interface {
	SendRiskAlert(to, username string, event *models.OverdraftRiskEvent) error
}

// ScanResult summarizes one risk scan
type ScanResult struct {
	Users    int
	Alerts   int
	Failures int
}

// RiskAlertJob forecasts every recipient and alerts the ones at risk
type RiskAlertJob struct {
	users      Recipients
	forecaster Forecaster
	sender     AlertSender
	log        *logrus.Logger
	timeout    time.Duration
}

func NewRiskAlertJob(users Recipients, forecaster Forecaster, sender AlertSender, log *logrus.Logger) *RiskAlertJob {
	return &RiskAlertJob{
		users:      users,
		forecaster: forecaster,
		sender:     sender,
		log:        log,
		timeout:    5 * time.Minute,
	}
}

// Run implements cron.Job
func (j *RiskAlertJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	res, err := j.Scan(ctx)
	if err != nil {
		j.log.Errorf("Risk scan failed: %v", err)
		return
	}
	j.log.WithFields(logrus.Fields{
		"users":    res.Users,
		"alerts":   res.Alerts,
		"failures": res.Failures,
	}).Info("Risk scan finished")
}

// Scan runs the default-horizon forecast for each recipient in turn. A user
// whose forecast or email fails is logged and skipped.
func (j *RiskAlertJob) Scan(ctx context.Context) (ScanResult, error) {
	start := time.Now()
	var res ScanResult

	users, err := j.users.ListAlertRecipients(ctx)
	if err != nil {
		metrics.Requests.WithLabelValues(metrics.OpRiskScan, metrics.OutcomeUnavailable).Inc()
		return res, fmt.Errorf("failed to list alert recipients: %w", err)
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("risk scan interrupted: %w", err)
		}
		res.Users++

		fc, err := j.forecaster.ForecastCashFlow(ctx, u.ID, 0)
		if err != nil {
			res.Failures++
			j.log.WithField("user_id", u.ID).Warnf("Failed to forecast cash flow: %v", err)
			continue
		}
		if fc.OverdraftRisk == nil {
			continue
		}

		if err := j.sender.SendRiskAlert(u.Email, u.Username, fc.OverdraftRisk); err != nil {
			res.Failures++
			metrics.AlertsSent.WithLabelValues("failed").Inc()
			j.log.WithField("user_id", u.ID).Warnf("Failed to send risk alert: %v", err)
			continue
		}
		res.Alerts++
		metrics.AlertsSent.WithLabelValues("sent").Inc()
	}

	metrics.Requests.WithLabelValues(metrics.OpRiskScan, metrics.OutcomeOK).Inc()
	metrics.Duration.WithLabelValues(metrics.OpRiskScan).Observe(time.Since(start).Seconds())
	return res, nil
}

// Scheduler owns the cron instance the risk scan runs on
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler registers job under the standard five-field cron spec.
// Overlapping runs are skipped and panics are recovered and logged.
func NewScheduler(spec string, job cron.Job, log *logrus.Logger) (*Scheduler, error) {
	logger := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("failed to schedule risk scan %q: %w", spec, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running scan until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Next reports when the scan will run next
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Package jobs wires background task processing over asynq: on-demand
// reminder batches enqueued from the API and a scheduled monthly scan.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/syndik/syndik/internal/finance/missing"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReminderBatch dispatches payment reminders for one org and period.
	TaskReminderBatch = "reminders:batch"
	// TaskReminderScan runs the monthly missing-payment scan over all orgs.
	TaskReminderScan = "reminders:scan"
)

// ReminderBatchPayload identifies one organization's billing period.
type ReminderBatchPayload struct {
	OrgID int64 `json:"orgId"`
	Month int   `json:"month"`
	Year  int   `json:"year"`
}

// NewReminderBatchTask constructs an Asynq task.
func NewReminderBatchTask(payload ReminderBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderBatch, data), nil
}

// NewReminderScanTask constructs the scheduled scan task.
func NewReminderScanTask() *asynq.Task {
	return asynq.NewTask(TaskReminderScan, nil)
}

// OrgLister supplies the tenant ids the scheduled scan iterates over.
type OrgLister interface {
	ActiveOrgIDs(ctx context.Context) ([]int64, error)
}

// ReminderProcessor runs reminder batches inside the worker.
type ReminderProcessor struct {
	logger     *slog.Logger
	service    *missing.Service
	dispatcher *missing.Dispatcher
	orgs       OrgLister
	now        func() time.Time
}

// NewReminderProcessor builds the worker-side processor.
func NewReminderProcessor(logger *slog.Logger, service *missing.Service, dispatcher *missing.Dispatcher, orgs OrgLister) *ReminderProcessor {
	return &ReminderProcessor{
		logger:     logger,
		service:    service,
		dispatcher: dispatcher,
		orgs:       orgs,
		now:        time.Now,
	}
}

// HandleReminderBatch processes TaskReminderBatch tasks. A malformed
// payload or invalid period is dropped instead of retried.
func (p *ReminderProcessor) HandleReminderBatch(ctx context.Context, t *asynq.Task) error {
	var payload ReminderBatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	return p.runBatch(ctx, payload.OrgID, payload.Month, payload.Year)
}

// HandleReminderScan processes the scheduled scan: every organization
// gets a reminder batch for the current billing period.
func (p *ReminderProcessor) HandleReminderScan(ctx context.Context, t *asynq.Task) error {
	now := p.now().UTC()
	orgIDs, err := p.orgs.ActiveOrgIDs(ctx)
	if err != nil {
		return err
	}
	for _, orgID := range orgIDs {
		if err := p.runBatch(ctx, orgID, int(now.Month()), now.Year()); err != nil {
			// One org's failure must not starve the rest of the scan.
			p.logger.Error("monthly reminder scan org failed",
				slog.Int64("org_id", orgID),
				slog.Any("error", err))
		}
	}
	return nil
}

func (p *ReminderProcessor) runBatch(ctx context.Context, orgID int64, month, year int) error {
	set, err := p.service.MissingPayments(ctx, orgID, month, year)
	if err != nil {
		return err
	}
	report := p.dispatcher.SendAll(ctx, orgID, set.Period, set.Units)
	p.logger.Info("reminder batch processed",
		slog.Int64("org_id", orgID),
		slog.Int("month", month),
		slog.Int("year", year),
		slog.Int("sent", report.SuccessCount()),
		slog.Int("failed", report.FailureCount()),
		slog.String("outcome", report.Outcome))
	return nil
}

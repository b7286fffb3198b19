package missing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/observability"
)

// PaymentReminder is the payload handed to the notification channel for
// one missing unit.
type PaymentReminder struct {
	OrgID        int64
	ResidentID   int64
	UnitID       int64
	UnitNumber   string
	BuildingName string
	Amount       decimal.Decimal
	DueDate      time.Time
}

// NotificationCreator is the downstream channel the dispatcher writes
// reminders to. Implemented by the notifications service.
type NotificationCreator interface {
	CreatePaymentReminder(ctx context.Context, reminder PaymentReminder) error
}

// Dispatcher creates reminder notifications for missing units. It does
// not deduplicate: dispatching twice for the same unit and period
// creates two reminder records.
type Dispatcher struct {
	logger   *slog.Logger
	notifier NotificationCreator
	metrics  *observability.Metrics
}

// NewDispatcher creates the reminder dispatcher. Metrics may be nil.
func NewDispatcher(logger *slog.Logger, notifier NotificationCreator, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{logger: logger, notifier: notifier, metrics: metrics}
}

// SendOne creates exactly one reminder for the unit's resident.
func (d *Dispatcher) SendOne(ctx context.Context, orgID int64, period Period, unit BilledUnit) error {
	err := d.notifier.CreatePaymentReminder(ctx, PaymentReminder{
		OrgID:        orgID,
		ResidentID:   unit.ResidentID,
		UnitID:       unit.UnitID,
		UnitNumber:   unit.UnitNumber,
		BuildingName: unit.BuildingName,
		Amount:       unit.MonthlyFee,
		DueDate:      period.DueDate,
	})
	if err != nil {
		if d.metrics != nil {
			d.metrics.ObserveReminder("failed")
		}
		return fmt.Errorf("reminder for unit %s: %w", unit.UnitNumber, err)
	}
	if d.metrics != nil {
		d.metrics.ObserveReminder("sent")
	}
	return nil
}

// SendAll folds sequentially over the missing set. A failed unit never
// aborts the rest of the batch and committed reminders stay committed.
func (d *Dispatcher) SendAll(ctx context.Context, orgID int64, period Period, units []MissingUnit) DispatchReport {
	report := DispatchReport{}
	for _, mu := range units {
		if err := d.SendOne(ctx, orgID, period, mu.BilledUnit); err != nil {
			d.logger.Error("payment reminder dispatch failed",
				slog.Int64("org_id", orgID),
				slog.String("unit", mu.UnitNumber),
				slog.Any("error", err))
			report.Failed = append(report.Failed, DispatchFailure{
				UnitID:     mu.UnitID,
				UnitNumber: mu.UnitNumber,
				Reason:     err.Error(),
			})
			continue
		}
		report.Sent = append(report.Sent, mu.UnitID)
	}
	report.Outcome = classifyOutcome(len(report.Sent), len(report.Failed))
	if d.metrics != nil {
		d.metrics.ObserveReminderBatch(len(units))
	}
	d.logger.Info("payment reminder batch finished",
		slog.Int64("org_id", orgID),
		slog.Int("month", period.Month),
		slog.Int("year", period.Year),
		slog.Int("sent", len(report.Sent)),
		slog.Int("failed", len(report.Failed)),
		slog.String("outcome", report.Outcome))
	return report
}

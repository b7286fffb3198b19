package notifications

import (
	"context"
	"fmt"

	"github.com/syndik/syndik/internal/finance/missing"
)

// CreatePaymentReminder satisfies the dispatcher's notification port.
// Each call inserts one reminder row; nothing is mutated afterwards.
func (s *Service) CreatePaymentReminder(ctx context.Context, reminder missing.PaymentReminder) error {
	unitID := reminder.UnitID
	_, err := s.Create(ctx, Notification{
		OrgID:      reminder.OrgID,
		ResidentID: reminder.ResidentID,
		UnitID:     &unitID,
		Kind:       KindPaymentReminder,
		Subject: fmt.Sprintf("Payment reminder for unit %s, %s",
			reminder.UnitNumber, reminder.BuildingName),
		Body: fmt.Sprintf(
			"The monthly fee of %s for unit %s (%s) was due on %s and has not been recorded yet.",
			reminder.Amount.StringFixed(2), reminder.UnitNumber,
			reminder.BuildingName, reminder.DueDate.Format("2006-01-02")),
	})
	return err
}

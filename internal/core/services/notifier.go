package services

import (
	"context"
	"log/slog"

	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
)

// logNotifier records due-payment reminders on the structured log. Actual
// delivery (SMS gateway etc.) lives outside this module and can replace this
// implementation behind the Notifier port.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that logs reminder intents.
func NewLogNotifier(logger *slog.Logger) portssvc.Notifier {
	return &logNotifier{logger: logger}
}

var _ portssvc.Notifier = (*logNotifier)(nil)

func (n *logNotifier) NotifyPaymentDue(ctx context.Context, reminder portssvc.PaymentReminder) error {
	n.logger.InfoContext(ctx, "Payment due reminder",
		slog.String("loan_id", reminder.LoanID),
		slog.String("borrower", reminder.BorrowerName),
		slog.String("phone_number", reminder.PhoneNumber),
		slog.String("amount_due", reminder.AmountDue),
		slog.String("currency", reminder.Currency),
		slog.String("due_date", reminder.DueDate.Format("2006-01-02")),
	)
	return nil
}

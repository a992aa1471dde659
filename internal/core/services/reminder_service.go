package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/utils"
)

// reminderService finds loans approaching their due date and pushes a
// reminder through the Notifier port. A loan that cannot be notified (e.g.
// borrower lookup failure) is logged and skipped, never aborting the sweep.
type reminderService struct {
	loanRepo     portsrepo.LoanReader
	borrowerRepo portsrepo.BorrowerReader
	notifier     portssvc.Notifier
	clock        portssvc.Clock
	logger       *slog.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(loanRepo portsrepo.LoanReader, borrowerRepo portsrepo.BorrowerReader, notifier portssvc.Notifier, clock portssvc.Clock, logger *slog.Logger) portssvc.ReminderSvc {
	return &reminderService{
		loanRepo:     loanRepo,
		borrowerRepo: borrowerRepo,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

var _ portssvc.ReminderSvc = (*reminderService)(nil)

// SendDueReminders notifies borrowers of unpaid loans due within withinDays
// days. Returns how many reminders were emitted.
func (s *reminderService) SendDueReminders(ctx context.Context, withinDays int) (int, error) {
	if withinDays < 0 {
		withinDays = 0
	}
	today := domain.DateOf(s.clock.Now())
	until := today.AddDate(0, 0, withinDays)

	loans, err := s.loanRepo.ListLoansDueBetween(ctx, today, until)
	if err != nil {
		return 0, fmt.Errorf("failed to list loans due for reminders: %w", err)
	}

	sent := 0
	for i := range loans {
		loan := &loans[i]
		if loan.Status == domain.LoanStatusPaid {
			continue
		}

		borrower, err := s.borrowerRepo.FindBorrowerByID(ctx, loan.BorrowerID)
		if err != nil {
			s.logger.Warn("Skipping reminder, borrower lookup failed",
				slog.String("loan_id", loan.LoanID),
				slog.String("borrower_id", loan.BorrowerID),
				slog.String("error", err.Error()))
			continue
		}

		reminder := portssvc.PaymentReminder{
			LoanID:       loan.LoanID,
			BorrowerName: borrower.FullName(),
			PhoneNumber:  borrower.PhoneNumber,
			AmountDue:    utils.FormatWithPrecision(loan.RemainingToPay(), 2),
			Currency:     string(loan.Currency),
			DueDate:      loan.DueDate(),
		}
		if err := s.notifier.NotifyPaymentDue(ctx, reminder); err != nil {
			s.logger.Warn("Failed to send payment reminder",
				slog.String("loan_id", loan.LoanID),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent, nil
}

package services

import (
	"context"
	"time"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Loan         LoanSvcFacade
	LoanImport   LoanImportSvc
	Investor     InvestorSvcFacade
	Borrower     BorrowerSvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Reminder     ReminderSvc
}

// Clock supplies the current time to every accrual entry point, so that
// profit and status calculations stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// PaymentReminder is the payload handed to a Notifier for a due payment.
type PaymentReminder struct {
	LoanID       string
	BorrowerName string
	PhoneNumber  string
	AmountDue    string
	Currency     string
	DueDate      time.Time
}

// Notifier delivers due-payment reminders. Actual delivery (SMS etc.) is an
// external concern; implementations inside this module only record the intent.
type Notifier interface {
	NotifyPaymentDue(ctx context.Context, reminder PaymentReminder) error
}

package services

import (
	"log/slog"

	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, clock portssvc.Clock, notifier portssvc.Notifier, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Borrower = NewBorrowerService(repos.BorrowerRepo, clock)
	container.Loan = NewLoanService(repos.LoanRepo, repos.BorrowerRepo, clock)
	container.LoanImport = NewLoanImportService(repos.LoanRepo, container.Borrower, clock)
	container.Investor = NewInvestorService(repos.InvestorRepo, clock)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, clock)
	container.Reminder = NewReminderService(repos.LoanRepo, repos.BorrowerRepo, notifier, clock, logger)

	return container
}

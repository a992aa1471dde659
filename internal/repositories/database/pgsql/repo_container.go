package pgsql

import (
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	loanRepo := newPgxLoanRepository(dbPool)
	investorRepo := newPgxInvestorRepository(dbPool)
	borrowerRepo := newPgxBorrowerRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LoanRepo:         loanRepo,
		InvestorRepo:     investorRepo,
		BorrowerRepo:     borrowerRepo,
		ExchangeRateRepo: exchangeRateRepo,
	}
}

package repositories

import (
	"context"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
)

// InvestorReader defines read operations for investor data.
type InvestorReader interface {
	// FindInvestorByID retrieves an investor with the transaction ledger
	// loaded in creation order.
	FindInvestorByID(ctx context.Context, investorID string) (*domain.Investor, error)

	// ListInvestors retrieves all investors with their ledgers loaded.
	ListInvestors(ctx context.Context) ([]domain.Investor, error)

	// ListInvestorIDs retrieves just the investor IDs, for the periodic runner.
	ListInvestorIDs(ctx context.Context) ([]string, error)

	// ListTransactions retrieves an investor's ledger in creation order.
	ListTransactions(ctx context.Context, investorID string) ([]domain.InvestorTransaction, error)
}

// InvestorWriter defines write operations for investor data.
type InvestorWriter interface {
	// SaveInvestor persists a new investor.
	SaveInvestor(ctx context.Context, investor domain.Investor) error

	// UpdateInvestor persists mutations to investor fields that are not
	// balance-bearing (identity, profit_paid flags).
	UpdateInvestor(ctx context.Context, investor domain.Investor) error

	// SaveTransactionAndUpdateFunds appends a ledger entry and applies its
	// signed effect to funds_available atomically, locking the investor row.
	// Returns apperrors.ErrInsufficientFunds when a debit would overdraw.
	SaveTransactionAndUpdateFunds(ctx context.Context, txn domain.InvestorTransaction) error

	// SaveProfitAccrual persists a profit accrual atomically: the profit
	// transaction plus the investor's funds_available, profit_earned,
	// profit_paid flags and last_profit_calculation checkpoint. The investor
	// row is locked and the write is rejected with apperrors.ErrConflict when
	// the stored checkpoint no longer matches expectedLastCalculation.
	SaveProfitAccrual(ctx context.Context, investor domain.Investor, txn domain.InvestorTransaction, expectedLastCalculation *time.Time) error
}

// InvestorRepositoryFacade combines all investor-related repository interfaces.
type InvestorRepositoryFacade interface {
	InvestorReader
	InvestorWriter
}

// InvestorRepositoryWithTx extends InvestorRepositoryFacade with transaction capabilities.
type InvestorRepositoryWithTx interface {
	InvestorRepositoryFacade
	TransactionManager
}

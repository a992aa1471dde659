package services

import (
	"context"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/shopspring/decimal"
)

// InvestorReaderSvc defines read operations for investors.
type InvestorReaderSvc interface {
	// GetInvestorByID retrieves an investor with the transaction ledger loaded.
	GetInvestorByID(ctx context.Context, investorID string) (*domain.Investor, error)

	// ListInvestors retrieves all investors.
	ListInvestors(ctx context.Context) ([]domain.Investor, error)

	// ListTransactions retrieves an investor's statement in creation order.
	ListTransactions(ctx context.Context, investorID string) ([]domain.InvestorTransaction, error)
}

// InvestorWriterSvc defines write operations for investors.
type InvestorWriterSvc interface {
	// CreateInvestor persists a new investor, recording the initial deposit
	// as the first ledger entry when one is supplied.
	CreateInvestor(ctx context.Context, req dto.CreateInvestorRequest, creatorUserID string) (*domain.Investor, error)

	// RecordTopup appends a topup transaction and credits funds_available.
	RecordTopup(ctx context.Context, investorID string, req dto.InvestorTransactionRequest, actorUserID string) (*domain.InvestorTransaction, error)

	// RecordWithdrawal appends a withdrawal transaction and debits
	// funds_available, rejecting overdrafts.
	RecordWithdrawal(ctx context.Context, investorID string, req dto.InvestorTransactionRequest, actorUserID string) (*domain.InvestorTransaction, error)

	// MarkProfitPaid flags the accrued profit as paid out. Fund movement is
	// the external disbursement process's concern.
	MarkProfitPaid(ctx context.Context, investorID string, actorUserID string) (*domain.Investor, error)
}

// InvestorProfitSvc runs the quarterly profit accrual.
type InvestorProfitSvc interface {
	// CalculateQuarterlyProfit accrues 4% per elapsed 90-day quarter on the
	// investor's net invested amount. Returns zero with no side effects when
	// no full quarter has elapsed since the last checkpoint.
	CalculateQuarterlyProfit(ctx context.Context, investorID string) (decimal.Decimal, error)
}

// InvestorSvcFacade combines all investor-related service interfaces.
type InvestorSvcFacade interface {
	InvestorReaderSvc
	InvestorWriterSvc
	InvestorProfitSvc
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// investorService orchestrates the investor profit engine. Balance-bearing
// writes always go through the repository as an atomic ledger-entry +
// balance-update pair, so funds_available stays equal to the cumulative
// effect of the transaction log.
type investorService struct {
	investorRepo portsrepo.InvestorRepositoryWithTx
	clock        portssvc.Clock
}

// NewInvestorService creates a new investor service.
func NewInvestorService(investorRepo portsrepo.InvestorRepositoryWithTx, clock portssvc.Clock) portssvc.InvestorSvcFacade {
	return &investorService{investorRepo: investorRepo, clock: clock}
}

var _ portssvc.InvestorSvcFacade = (*investorService)(nil)

// CreateInvestor registers an investor. Funds start at zero and the initial
// deposit, when given, is applied through the ledger like any other movement.
func (s *investorService) CreateInvestor(ctx context.Context, req dto.CreateInvestorRequest, creatorUserID string) (*domain.Investor, error) {
	if req.InitialDeposit.IsNegative() {
		return nil, fmt.Errorf("%w: initial deposit cannot be negative", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	investor := domain.Investor{
		InvestorID:             uuid.NewString(),
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PhoneNumber:            NormalizeGhanaPhone(req.PhoneNumber),
		Email:                  req.Email,
		Region:                 req.Region,
		Currency:               req.Currency,
		InvestmentPeriodMonths: req.InvestmentPeriodMonths,
		FundsAvailable:         decimal.Zero,
		ProfitEarned:           decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.investorRepo.SaveInvestor(ctx, investor); err != nil {
		return nil, fmt.Errorf("failed to create investor: %w", err)
	}

	if req.InitialDeposit.IsPositive() {
		txn := domain.InvestorTransaction{
			TransactionID: uuid.NewString(),
			InvestorID:    investor.InvestorID,
			Type:          domain.TxnDeposit,
			Amount:        req.InitialDeposit,
			Date:          now,
			CreatedBy:     creatorUserID,
		}
		if err := s.investorRepo.SaveTransactionAndUpdateFunds(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to record initial deposit: %w", err)
		}
		investor.FundsAvailable = req.InitialDeposit
		investor.Transactions = []domain.InvestorTransaction{txn}
	}

	return &investor, nil
}

func (s *investorService) GetInvestorByID(ctx context.Context, investorID string) (*domain.Investor, error) {
	investor, err := s.investorRepo.FindInvestorByID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investor: %w", err)
	}
	return investor, nil
}

func (s *investorService) ListInvestors(ctx context.Context) ([]domain.Investor, error) {
	investors, err := s.investorRepo.ListInvestors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}
	return investors, nil
}

func (s *investorService) ListTransactions(ctx context.Context, investorID string) ([]domain.InvestorTransaction, error) {
	txns, err := s.investorRepo.ListTransactions(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investor transactions: %w", err)
	}
	return txns, nil
}

// RecordTopup appends a topup ledger entry and credits funds_available.
// Topups grow the invested base but never profit_earned.
func (s *investorService) RecordTopup(ctx context.Context, investorID string, req dto.InvestorTransactionRequest, actorUserID string) (*domain.InvestorTransaction, error) {
	return s.recordMovement(ctx, investorID, domain.TxnTopup, req.Amount, actorUserID)
}

// RecordWithdrawal appends a withdrawal ledger entry and debits
// funds_available. Overdrafts are rejected inside the repository transaction.
func (s *investorService) RecordWithdrawal(ctx context.Context, investorID string, req dto.InvestorTransactionRequest, actorUserID string) (*domain.InvestorTransaction, error) {
	return s.recordMovement(ctx, investorID, domain.TxnWithdrawal, req.Amount, actorUserID)
}

func (s *investorService) recordMovement(ctx context.Context, investorID string, txnType domain.InvestorTransactionType, amount decimal.Decimal, actorUserID string) (*domain.InvestorTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s amount must be positive", apperrors.ErrValidation, txnType)
	}

	if _, err := s.investorRepo.FindInvestorByID(ctx, investorID); err != nil {
		return nil, fmt.Errorf("failed to get investor for %s: %w", txnType, err)
	}

	txn := domain.InvestorTransaction{
		TransactionID: uuid.NewString(),
		InvestorID:    investorID,
		Type:          txnType,
		Amount:        amount,
		Date:          s.clock.Now(),
		CreatedBy:     actorUserID,
	}
	if err := s.investorRepo.SaveTransactionAndUpdateFunds(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", txnType, err)
	}
	return &txn, nil
}

// CalculateQuarterlyProfit accrues 4% per elapsed 90-day quarter on the net
// invested amount. The profit transaction and the investor field updates are
// persisted atomically, guarded by the previous checkpoint so a concurrent
// accrual on the same investor cannot double-credit.
func (s *investorService) CalculateQuarterlyProfit(ctx context.Context, investorID string) (decimal.Decimal, error) {
	investor, err := s.investorRepo.FindInvestorByID(ctx, investorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get investor for profit calculation: %w", err)
	}

	var expectedCheckpoint *time.Time
	if investor.LastProfitCalculation != nil {
		cp := *investor.LastProfitCalculation
		expectedCheckpoint = &cp
	}

	accrual := investor.AccrueQuarterlyProfit(s.clock.Now(), uuid.NewString(), investor.CreatedBy)
	if accrual == nil {
		return decimal.Zero, nil
	}

	if err := s.investorRepo.SaveProfitAccrual(ctx, *investor, accrual.Transaction, expectedCheckpoint); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist profit accrual: %w", err)
	}
	return accrual.TotalProfit, nil
}

// MarkProfitPaid flags the accrued profit as paid. Moving the funds is the
// external disbursement process's concern; only the flag is managed here.
func (s *investorService) MarkProfitPaid(ctx context.Context, investorID string, actorUserID string) (*domain.Investor, error) {
	investor, err := s.investorRepo.FindInvestorByID(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investor: %w", err)
	}

	now := s.clock.Now()
	investor.ProfitPaid = true
	investor.ProfitPaidDate = &now
	investor.LastUpdatedAt = now
	investor.LastUpdatedBy = actorUserID

	if err := s.investorRepo.UpdateInvestor(ctx, *investor); err != nil {
		return nil, fmt.Errorf("failed to mark profit paid: %w", err)
	}
	return investor, nil
}

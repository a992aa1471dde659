package services

import (
	"context"
	"fmt"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultProductName = "Standard"

// loanService orchestrates the loan accrual engine: creation with rate
// defaulting, principal top-ups, rollovers, and the append-only repayment
// ledger. All derived fields are recomputed before anything is persisted.
type loanService struct {
	loanRepo     portsrepo.LoanRepositoryWithTx
	borrowerRepo portsrepo.BorrowerReader
	clock        portssvc.Clock
}

// NewLoanService creates a new loan service.
func NewLoanService(loanRepo portsrepo.LoanRepositoryWithTx, borrowerRepo portsrepo.BorrowerReader, clock portssvc.Clock) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:     loanRepo,
		borrowerRepo: borrowerRepo,
		clock:        clock,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan persists a new loan. The interest rate defaults by currency when
// omitted and the original term is pinned so later rollovers extend from it.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	if req.Principal.IsNegative() {
		return nil, fmt.Errorf("%w: principal cannot be negative", apperrors.ErrValidation)
	}
	if req.InterestRate != nil && req.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}

	if _, err := s.borrowerRepo.FindBorrowerByID(ctx, req.BorrowerID); err != nil {
		return nil, fmt.Errorf("failed to resolve borrower %s: %w", req.BorrowerID, err)
	}

	rate := req.Currency.DefaultMonthlyRate()
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	product := req.ProductName
	if product == "" {
		product = defaultProductName
	}

	now := s.clock.Now()
	loan := domain.Loan{
		LoanID:             uuid.NewString(),
		BorrowerID:         req.BorrowerID,
		ProductName:        product,
		Currency:           req.Currency,
		Principal:          req.Principal,
		InterestRate:       rate,
		StartDate:          domain.DateOf(req.StartDate),
		TermMonths:         req.TermMonths,
		OriginalTermMonths: req.TermMonths,
		Description:        req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	loan.UpdateStatus(now)

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return &loan, nil
}

func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

func (s *loanService) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

// ListRepayments returns the loan's repayments with the informational running
// balance against the opening principal.
func (s *loanService) ListRepayments(ctx context.Context, loanID string) ([]domain.RepaymentBalance, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan for repayments: %w", err)
	}
	return domain.RunningBalances(loan.Principal, loan.Repayments), nil
}

// UpdateLoan applies a principal top-up, a rollover and descriptive changes,
// then recomputes the derived status. The returned ChangeSet is the audit diff
// of everything that actually changed.
func (s *loanService) UpdateLoan(ctx context.Context, loanID string, req dto.UpdateLoanRequest, updaterUserID string) (*domain.Loan, domain.ChangeSet, error) {
	if req.AdditionalPrincipal != nil && req.AdditionalPrincipal.IsNegative() {
		return nil, nil, fmt.Errorf("%w: additional principal cannot be negative", apperrors.ErrValidation)
	}

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get loan for update: %w", err)
	}
	// The write below is guarded on this timestamp; a concurrent writer makes
	// the update fail with ErrConflict instead of losing one of the changes.
	readAt := loan.LastUpdatedAt

	var changes domain.ChangeSet

	if req.AdditionalPrincipal != nil && req.AdditionalPrincipal.IsPositive() {
		before := loan.Principal
		loan.ApplyAdditionalPrincipal(*req.AdditionalPrincipal)
		changes = append(changes, domain.FieldChange{
			Field: "principal", Old: before.String(), New: loan.Principal.String(),
		})
	}

	if req.IsRollover != nil && *req.IsRollover && !loan.IsRollover {
		before := loan.RolloverCount
		loan.ApplyRollover()
		changes = append(changes, domain.FieldChange{
			Field: "rollover_count", Old: fmt.Sprintf("%d", before), New: fmt.Sprintf("%d", loan.RolloverCount),
		})
	}

	if req.ProductName != nil && *req.ProductName != loan.ProductName {
		changes = append(changes, domain.FieldChange{
			Field: "product_name", Old: loan.ProductName, New: *req.ProductName,
		})
		loan.ProductName = *req.ProductName
	}

	if req.Description != nil && *req.Description != loan.Description {
		changes = append(changes, domain.FieldChange{
			Field: "description", Old: loan.Description, New: *req.Description,
		})
		loan.Description = *req.Description
	}

	if len(changes) == 0 {
		return loan, changes, nil
	}

	now := s.clock.Now()
	beforeStatus := loan.Status
	loan.UpdateStatus(now)
	if loan.Status != beforeStatus {
		changes = append(changes, domain.FieldChange{
			Field: "status", Old: string(beforeStatus), New: string(loan.Status),
		})
	}
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = updaterUserID

	if err := s.loanRepo.UpdateLoan(ctx, *loan, readAt); err != nil {
		return nil, nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return loan, changes, nil
}

func (s *loanService) DeleteLoan(ctx context.Context, loanID string) error {
	if err := s.loanRepo.DeleteLoan(ctx, loanID); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}

// AddRepayment appends a repayment to the loan's ledger. The repository
// derives the new loan status from the committed ledger under the loan row
// lock, so two concurrent repayments cannot settle a loan and leave it marked
// active.
func (s *loanService) AddRepayment(ctx context.Context, loanID string, req dto.CreateRepaymentRequest, creatorUserID string) (*domain.Repayment, *domain.Loan, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: repayment amount must be positive", apperrors.ErrValidation)
	}
	if !req.Method.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown repayment method %q", apperrors.ErrValidation, req.Method)
	}

	now := s.clock.Now()
	paymentDate := domain.DateOf(now)
	if req.Date != nil {
		paymentDate = domain.DateOf(*req.Date)
	}

	repayment := domain.Repayment{
		RepaymentID: uuid.NewString(),
		LoanID:      loanID,
		Date:        paymentDate,
		Amount:      req.Amount,
		Method:      req.Method,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	loan, err := s.loanRepo.SaveRepayment(ctx, repayment, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save repayment: %w", err)
	}
	return &repayment, loan, nil
}

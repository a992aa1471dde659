package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	"github.com/comloan/loan_mgmt_app/internal/models"
	"github.com/comloan/loan_mgmt_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const loanColumns = `loan_id, borrower_id, product_name, currency, principal, interest_rate,
	start_date, term_months, original_term_months, rollover_count, is_rollover, status,
	description, created_at, created_by, last_updated_at, last_updated_by`

const repaymentColumns = `repayment_id, loan_id, payment_date, amount, method,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan and repayment data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

func scanLoanRow(row pgx.CollectableRow) (models.Loan, error) {
	var loan models.Loan
	err := row.Scan(
		&loan.LoanID,
		&loan.BorrowerID,
		&loan.ProductName,
		&loan.Currency,
		&loan.Principal,
		&loan.InterestRate,
		&loan.StartDate,
		&loan.TermMonths,
		&loan.OriginalTermMonths,
		&loan.RolloverCount,
		&loan.IsRollover,
		&loan.Status,
		&loan.Description,
		&loan.CreatedAt,
		&loan.CreatedBy,
		&loan.LastUpdatedAt,
		&loan.LastUpdatedBy,
	)
	return loan, err
}

func scanRepaymentRow(row pgx.CollectableRow) (models.Repayment, error) {
	var rep models.Repayment
	err := row.Scan(
		&rep.RepaymentID,
		&rep.LoanID,
		&rep.Date,
		&rep.Amount,
		&rep.Method,
		&rep.CreatedAt,
		&rep.CreatedBy,
		&rep.LastUpdatedAt,
		&rep.LastUpdatedBy,
	)
	return rep, err
}

// SaveLoan inserts a new loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	modelLoan := mapping.ToModelLoan(loan)

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelLoan.LoanID,
		modelLoan.BorrowerID,
		modelLoan.ProductName,
		modelLoan.Currency,
		modelLoan.Principal,
		modelLoan.InterestRate,
		modelLoan.StartDate,
		modelLoan.TermMonths,
		modelLoan.OriginalTermMonths,
		modelLoan.RolloverCount,
		modelLoan.IsRollover,
		modelLoan.Status,
		modelLoan.Description,
		modelLoan.CreatedAt,
		modelLoan.CreatedBy,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan %s: %w", modelLoan.LoanID, err)
	}
	return nil
}

// UpdateLoan persists mutations to an existing loan. The write only lands if
// last_updated_at still matches what the caller read, so a concurrent top-up
// or rollover cannot be silently overwritten.
func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan, expectedUpdatedAt time.Time) error {
	modelLoan := mapping.ToModelLoan(loan)

	query := `
		UPDATE loans SET
			product_name = $2,
			currency = $3,
			principal = $4,
			interest_rate = $5,
			term_months = $6,
			original_term_months = $7,
			rollover_count = $8,
			is_rollover = $9,
			status = $10,
			description = $11,
			last_updated_at = $12,
			last_updated_by = $13
		WHERE loan_id = $1 AND last_updated_at = $14;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelLoan.LoanID,
		modelLoan.ProductName,
		modelLoan.Currency,
		modelLoan.Principal,
		modelLoan.InterestRate,
		modelLoan.TermMonths,
		modelLoan.OriginalTermMonths,
		modelLoan.RolloverCount,
		modelLoan.IsRollover,
		modelLoan.Status,
		modelLoan.Description,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
		expectedUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", modelLoan.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE loan_id = $1);`, modelLoan.LoanID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check loan %s after stale update: %w", modelLoan.LoanID, err)
		}
		if exists {
			return fmt.Errorf("loan %s changed since read: %w", modelLoan.LoanID, apperrors.ErrConflict)
		}
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLoan removes a loan; repayments cascade via the FK.
func (r *PgxLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM loans WHERE loan_id = $1;`, loanID)
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveRepayment appends a repayment and writes the loan's recomputed status
// and audit fields in one transaction, locking the loan row first. The status
// is derived from the ledger as committed inside the transaction, never from
// the caller's snapshot, so concurrent repayments serialize on the row lock
// and each sees the previous one's effect.
func (r *PgxLoanRepository) SaveRepayment(ctx context.Context, repayment domain.Repayment, asOf time.Time) (*domain.Loan, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	rows, err := tx.Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE loan_id = $1 FOR UPDATE;`, repayment.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock loan %s: %w", repayment.LoanID, err)
	}
	modelLoan, err := pgx.CollectOneRow(rows, scanLoanRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock loan %s: %w", repayment.LoanID, err)
	}

	modelRep := mapping.ToModelRepayment(repayment)
	_, err = tx.Exec(ctx, `
		INSERT INTO repayments (`+repaymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		modelRep.RepaymentID,
		modelRep.LoanID,
		modelRep.Date,
		modelRep.Amount,
		modelRep.Method,
		modelRep.CreatedAt,
		modelRep.CreatedBy,
		modelRep.LastUpdatedAt,
		modelRep.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save repayment %s: %w", modelRep.RepaymentID, err)
	}

	// Re-read the ledger inside the transaction: it includes the row just
	// inserted plus everything committed by earlier holders of the lock.
	ledgerRows, err := tx.Query(ctx, `
		SELECT `+repaymentColumns+`
		FROM repayments
		WHERE loan_id = $1
		ORDER BY payment_date, created_at;
	`, repayment.LoanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for loan %s: %w", repayment.LoanID, err)
	}
	modelReps, err := pgx.CollectRows(ledgerRows, scanRepaymentRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect ledger for loan %s: %w", repayment.LoanID, err)
	}

	loan := mapping.ToDomainLoan(modelLoan)
	loan.Repayments = mapping.ToDomainRepaymentSlice(modelReps)
	loan.UpdateStatus(asOf)
	loan.LastUpdatedAt = repayment.LastUpdatedAt
	loan.LastUpdatedBy = repayment.CreatedBy

	_, err = tx.Exec(ctx, `
		UPDATE loans SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE loan_id = $1;
	`,
		loan.LoanID,
		string(loan.Status),
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update loan status for %s: %w", loan.LoanID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindLoanByID retrieves a loan with its repayments loaded, date ascending.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan %s: %w", loanID, err)
	}
	modelLoan, err := pgx.CollectOneRow(rows, scanLoanRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	domainLoan := mapping.ToDomainLoan(modelLoan)
	repayments, err := r.listRepaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	domainLoan.Repayments = repayments
	return &domainLoan, nil
}

// ListLoans retrieves all loans with their repayments loaded.
func (r *PgxLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY start_date, loan_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	modelLoans, err := pgx.CollectRows(rows, scanLoanRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect loans: %w", err)
	}
	return r.attachRepayments(ctx, mapping.ToDomainLoanSlice(modelLoans))
}

// ListLoansByBorrower retrieves all loans for one borrower.
func (r *PgxLoanRepository) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 ORDER BY start_date, loan_id;`

	rows, err := r.Pool.Query(ctx, query, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans for borrower %s: %w", borrowerID, err)
	}
	modelLoans, err := pgx.CollectRows(rows, scanLoanRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect borrower loans: %w", err)
	}
	return r.attachRepayments(ctx, mapping.ToDomainLoanSlice(modelLoans))
}

// ListLoansDueBetween retrieves unpaid loans whose due date lands in [from, to].
// The due date is derived in SQL the same way the domain derives it: start date
// plus the effective term in months.
func (r *PgxLoanRepository) ListLoansDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status <> 'paid'
		  AND (start_date + make_interval(months => original_term_months * (1 + rollover_count)))::date
		      BETWEEN $1::date AND $2::date
		ORDER BY start_date, loan_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans due between %s and %s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	modelLoans, err := pgx.CollectRows(rows, scanLoanRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect due loans: %w", err)
	}
	return r.attachRepayments(ctx, mapping.ToDomainLoanSlice(modelLoans))
}

// FindLoanByNaturalKey retrieves a loan by its bulk-import identity.
func (r *PgxLoanRepository) FindLoanByNaturalKey(ctx context.Context, borrowerID string, startDate time.Time, principal decimal.Decimal) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE borrower_id = $1 AND start_date = $2::date AND principal = $3
		LIMIT 1;
	`
	rows, err := r.Pool.Query(ctx, query, borrowerID, startDate, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan by natural key: %w", err)
	}
	modelLoan, err := pgx.CollectOneRow(rows, scanLoanRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by natural key: %w", err)
	}

	domainLoan := mapping.ToDomainLoan(modelLoan)
	repayments, err := r.listRepaymentsByLoan(ctx, domainLoan.LoanID)
	if err != nil {
		return nil, err
	}
	domainLoan.Repayments = repayments
	return &domainLoan, nil
}

func (r *PgxLoanRepository) listRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	query := `
		SELECT ` + repaymentColumns + `
		FROM repayments
		WHERE loan_id = $1
		ORDER BY payment_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query repayments for loan %s: %w", loanID, err)
	}
	modelReps, err := pgx.CollectRows(rows, scanRepaymentRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect repayments: %w", err)
	}
	return mapping.ToDomainRepaymentSlice(modelReps), nil
}

// attachRepayments loads the repayments of every loan in one query.
func (r *PgxLoanRepository) attachRepayments(ctx context.Context, loans []domain.Loan) ([]domain.Loan, error) {
	if len(loans) == 0 {
		return loans, nil
	}

	ids := make([]string, len(loans))
	index := make(map[string]int, len(loans))
	for i := range loans {
		ids[i] = loans[i].LoanID
		index[loans[i].LoanID] = i
	}

	query := `
		SELECT ` + repaymentColumns + `
		FROM repayments
		WHERE loan_id = ANY($1)
		ORDER BY payment_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query repayments: %w", err)
	}
	modelReps, err := pgx.CollectRows(rows, scanRepaymentRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect repayments: %w", err)
	}

	for _, m := range modelReps {
		if i, ok := index[m.LoanID]; ok {
			loans[i].Repayments = append(loans[i].Repayments, mapping.ToDomainRepayment(m))
		}
	}
	return loans, nil
}

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

const investorColumns = `investor_id, first_name, last_name, phone_number, email, region,
	currency, investment_period_months, funds_available, profit_earned, profit_paid,
	profit_paid_date, last_profit_calculation, created_at, created_by, last_updated_at, last_updated_by`

const investorTxnColumns = `transaction_id, investor_id, txn_type, amount, txn_date, created_by`

type PgxInvestorRepository struct {
	BaseRepository
}

// newPgxInvestorRepository creates a new repository for investor data.
func newPgxInvestorRepository(pool *pgxpool.Pool) portsrepo.InvestorRepositoryWithTx {
	return &PgxInvestorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InvestorRepositoryWithTx = (*PgxInvestorRepository)(nil)

func scanInvestorRow(row pgx.CollectableRow) (models.Investor, error) {
	var inv models.Investor
	err := row.Scan(
		&inv.InvestorID,
		&inv.FirstName,
		&inv.LastName,
		&inv.PhoneNumber,
		&inv.Email,
		&inv.Region,
		&inv.Currency,
		&inv.InvestmentPeriodMonths,
		&inv.FundsAvailable,
		&inv.ProfitEarned,
		&inv.ProfitPaid,
		&inv.ProfitPaidDate,
		&inv.LastProfitCalculation,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

func scanInvestorTxnRow(row pgx.CollectableRow) (models.InvestorTransaction, error) {
	var txn models.InvestorTransaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.InvestorID,
		&txn.Type,
		&txn.Amount,
		&txn.Date,
		&txn.CreatedBy,
	)
	return txn, err
}

// SaveInvestor inserts a new investor.
func (r *PgxInvestorRepository) SaveInvestor(ctx context.Context, investor domain.Investor) error {
	m := mapping.ToModelInvestor(investor)

	query := `
		INSERT INTO investors (` + investorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InvestorID,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.Email,
		m.Region,
		m.Currency,
		m.InvestmentPeriodMonths,
		m.FundsAvailable,
		m.ProfitEarned,
		m.ProfitPaid,
		m.ProfitPaidDate,
		m.LastProfitCalculation,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save investor %s: %w", m.InvestorID, err)
	}
	return nil
}

// UpdateInvestor persists non-balance-bearing investor fields.
func (r *PgxInvestorRepository) UpdateInvestor(ctx context.Context, investor domain.Investor) error {
	m := mapping.ToModelInvestor(investor)

	query := `
		UPDATE investors SET
			first_name = $2,
			last_name = $3,
			phone_number = $4,
			email = $5,
			region = $6,
			investment_period_months = $7,
			profit_paid = $8,
			profit_paid_date = $9,
			last_updated_at = $10,
			last_updated_by = $11
		WHERE investor_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.InvestorID,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.Email,
		m.Region,
		m.InvestmentPeriodMonths,
		m.ProfitPaid,
		m.ProfitPaidDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update investor %s: %w", m.InvestorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTransactionAndUpdateFunds appends a ledger entry and applies its signed
// effect to funds_available in one transaction. The investor row is locked so
// concurrent movements serialize; debits that would overdraw are rejected.
func (r *PgxInvestorRepository) SaveTransactionAndUpdateFunds(ctx context.Context, txn domain.InvestorTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var funds decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT funds_available FROM investors WHERE investor_id = $1 FOR UPDATE;`,
		txn.InvestorID,
	).Scan(&funds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock investor %s: %w", txn.InvestorID, err)
	}

	delta := txn.Amount
	switch txn.Type {
	case domain.TxnDeposit, domain.TxnTopup, domain.TxnProfit:
		// credit
	case domain.TxnWithdrawal, domain.TxnReturn:
		delta = delta.Neg()
	default:
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txn.Type)
	}

	newFunds := funds.Add(delta)
	if newFunds.IsNegative() {
		return fmt.Errorf("%w: balance %s cannot cover %s of %s",
			apperrors.ErrInsufficientFunds, funds, txn.Type, txn.Amount)
	}

	m := mapping.ToModelInvestorTransaction(txn)
	_, err = tx.Exec(ctx, `
		INSERT INTO investor_transactions (`+investorTxnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		m.TransactionID, m.InvestorID, m.Type, m.Amount, m.Date, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save investor transaction %s: %w", m.TransactionID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE investors SET funds_available = $2, last_updated_at = $3, last_updated_by = $4
		WHERE investor_id = $1;
	`,
		m.InvestorID, newFunds, m.Date, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update funds for investor %s: %w", m.InvestorID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveProfitAccrual persists a profit accrual atomically: the profit ledger
// entry plus the investor's balance, profit fields and checkpoint. The write
// is rejected with ErrConflict when the stored checkpoint no longer matches
// expectedLastCalculation, which means a concurrent accrual got there first.
func (r *PgxInvestorRepository) SaveProfitAccrual(ctx context.Context, investor domain.Investor, txn domain.InvestorTransaction, expectedLastCalculation *time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var storedCheckpoint *time.Time
	err = tx.QueryRow(ctx,
		`SELECT last_profit_calculation FROM investors WHERE investor_id = $1 FOR UPDATE;`,
		investor.InvestorID,
	).Scan(&storedCheckpoint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock investor %s: %w", investor.InvestorID, err)
	}

	if !checkpointsEqual(storedCheckpoint, expectedLastCalculation) {
		return fmt.Errorf("%w: profit already accrued for investor %s",
			apperrors.ErrConflict, investor.InvestorID)
	}

	m := mapping.ToModelInvestorTransaction(txn)
	_, err = tx.Exec(ctx, `
		INSERT INTO investor_transactions (`+investorTxnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		m.TransactionID, m.InvestorID, m.Type, m.Amount, m.Date, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save profit transaction %s: %w", m.TransactionID, err)
	}

	inv := mapping.ToModelInvestor(investor)
	_, err = tx.Exec(ctx, `
		UPDATE investors SET
			funds_available = $2,
			profit_earned = $3,
			profit_paid = $4,
			profit_paid_date = $5,
			last_profit_calculation = $6,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE investor_id = $1;
	`,
		inv.InvestorID,
		inv.FundsAvailable,
		inv.ProfitEarned,
		inv.ProfitPaid,
		inv.ProfitPaidDate,
		inv.LastProfitCalculation,
		inv.LastUpdatedAt,
		inv.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update investor %s after accrual: %w", inv.InvestorID, err)
	}

	return r.Commit(ctx, tx)
}

func checkpointsEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// FindInvestorByID retrieves an investor with the ledger loaded.
func (r *PgxInvestorRepository) FindInvestorByID(ctx context.Context, investorID string) (*domain.Investor, error) {
	query := `SELECT ` + investorColumns + ` FROM investors WHERE investor_id = $1;`

	rows, err := r.Pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investor %s: %w", investorID, err)
	}
	m, err := pgx.CollectOneRow(rows, scanInvestorRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find investor %s: %w", investorID, err)
	}

	inv := mapping.ToDomainInvestor(m)
	txns, err := r.ListTransactions(ctx, investorID)
	if err != nil {
		return nil, err
	}
	inv.Transactions = txns
	return &inv, nil
}

// ListInvestors retrieves all investors with their ledgers loaded.
func (r *PgxInvestorRepository) ListInvestors(ctx context.Context) ([]domain.Investor, error) {
	query := `SELECT ` + investorColumns + ` FROM investors ORDER BY created_at, investor_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	ms, err := pgx.CollectRows(rows, scanInvestorRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect investors: %w", err)
	}

	investors := make([]domain.Investor, len(ms))
	for i, m := range ms {
		investors[i] = mapping.ToDomainInvestor(m)
		txns, err := r.ListTransactions(ctx, m.InvestorID)
		if err != nil {
			return nil, err
		}
		investors[i].Transactions = txns
	}
	return investors, nil
}

// ListInvestorIDs retrieves just the investor IDs, for the periodic runner.
func (r *PgxInvestorRepository) ListInvestorIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT investor_id FROM investors ORDER BY investor_id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investor IDs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect investor IDs: %w", err)
	}
	return ids, nil
}

// ListTransactions retrieves an investor's ledger in creation order.
func (r *PgxInvestorRepository) ListTransactions(ctx context.Context, investorID string) ([]domain.InvestorTransaction, error) {
	query := `
		SELECT ` + investorTxnColumns + `
		FROM investor_transactions
		WHERE investor_id = $1
		ORDER BY txn_date, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for investor %s: %w", investorID, err)
	}
	ms, err := pgx.CollectRows(rows, scanInvestorTxnRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect investor transactions: %w", err)
	}
	return mapping.ToDomainInvestorTransactionSlice(ms), nil
}

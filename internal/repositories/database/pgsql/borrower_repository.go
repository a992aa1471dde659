package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	"github.com/comloan/loan_mgmt_app/internal/models"
	"github.com/comloan/loan_mgmt_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const borrowerColumns = `borrower_id, first_name, last_name, phone_number, email, address, region,
	id_doc_type, id_doc_number, id_doc_expiry, guarantor_name, guarantor_relationship,
	guarantor_phone, guarantor_address, created_at, created_by, last_updated_at, last_updated_by`

type PgxBorrowerRepository struct {
	BaseRepository
}

// newPgxBorrowerRepository creates a new repository for borrower data.
func newPgxBorrowerRepository(pool *pgxpool.Pool) portsrepo.BorrowerRepositoryFacade {
	return &PgxBorrowerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BorrowerRepositoryFacade = (*PgxBorrowerRepository)(nil)

func scanBorrowerRow(row pgx.CollectableRow) (models.Borrower, error) {
	var b models.Borrower
	err := row.Scan(
		&b.BorrowerID,
		&b.FirstName,
		&b.LastName,
		&b.PhoneNumber,
		&b.Email,
		&b.Address,
		&b.Region,
		&b.IDDocType,
		&b.IDDocNumber,
		&b.IDDocExpiry,
		&b.GuarantorName,
		&b.GuarantorRelationship,
		&b.GuarantorPhone,
		&b.GuarantorAddress,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

// SaveBorrower inserts a new borrower.
func (r *PgxBorrowerRepository) SaveBorrower(ctx context.Context, borrower domain.Borrower) error {
	m := mapping.ToModelBorrower(borrower)

	query := `
		INSERT INTO borrowers (` + borrowerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BorrowerID,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.Email,
		m.Address,
		m.Region,
		m.IDDocType,
		m.IDDocNumber,
		m.IDDocExpiry,
		m.GuarantorName,
		m.GuarantorRelationship,
		m.GuarantorPhone,
		m.GuarantorAddress,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save borrower %s: %w", m.BorrowerID, err)
	}
	return nil
}

// UpdateBorrower persists mutations to an existing borrower.
func (r *PgxBorrowerRepository) UpdateBorrower(ctx context.Context, borrower domain.Borrower) error {
	m := mapping.ToModelBorrower(borrower)

	query := `
		UPDATE borrowers SET
			first_name = $2,
			last_name = $3,
			phone_number = $4,
			email = $5,
			address = $6,
			region = $7,
			id_doc_type = $8,
			id_doc_number = $9,
			id_doc_expiry = $10,
			guarantor_name = $11,
			guarantor_relationship = $12,
			guarantor_phone = $13,
			guarantor_address = $14,
			last_updated_at = $15,
			last_updated_by = $16
		WHERE borrower_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.BorrowerID,
		m.FirstName,
		m.LastName,
		m.PhoneNumber,
		m.Email,
		m.Address,
		m.Region,
		m.IDDocType,
		m.IDDocNumber,
		m.IDDocExpiry,
		m.GuarantorName,
		m.GuarantorRelationship,
		m.GuarantorPhone,
		m.GuarantorAddress,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update borrower %s: %w", m.BorrowerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteBorrower removes a borrower.
func (r *PgxBorrowerRepository) DeleteBorrower(ctx context.Context, borrowerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM borrowers WHERE borrower_id = $1;`, borrowerID)
	if err != nil {
		return fmt.Errorf("failed to delete borrower %s: %w", borrowerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindBorrowerByID retrieves a borrower by ID.
func (r *PgxBorrowerRepository) FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE borrower_id = $1;`
	return r.findOne(ctx, query, borrowerID)
}

// FindBorrowerByPhone retrieves a borrower by normalized phone number.
func (r *PgxBorrowerRepository) FindBorrowerByPhone(ctx context.Context, phoneNumber string) (*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE phone_number = $1;`
	return r.findOne(ctx, query, phoneNumber)
}

func (r *PgxBorrowerRepository) findOne(ctx context.Context, query string, arg any) (*domain.Borrower, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrower: %w", err)
	}
	m, err := pgx.CollectOneRow(rows, scanBorrowerRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find borrower: %w", err)
	}
	b := mapping.ToDomainBorrower(m)
	return &b, nil
}

// FindBorrowersByName retrieves borrowers matching first and last name
// case-insensitively, optionally narrowed by email.
func (r *PgxBorrowerRepository) FindBorrowersByName(ctx context.Context, firstName, lastName, email string) ([]domain.Borrower, error) {
	query := `
		SELECT ` + borrowerColumns + `
		FROM borrowers
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)
		  AND ($3 = '' OR lower(email) = lower($3))
		ORDER BY borrower_id;
	`
	rows, err := r.Pool.Query(ctx, query, firstName, lastName, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrowers by name: %w", err)
	}
	ms, err := pgx.CollectRows(rows, scanBorrowerRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect borrowers: %w", err)
	}
	return mapping.ToDomainBorrowerSlice(ms), nil
}

// ListBorrowers retrieves all borrowers.
func (r *PgxBorrowerRepository) ListBorrowers(ctx context.Context) ([]domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers ORDER BY last_name, first_name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query borrowers: %w", err)
	}
	ms, err := pgx.CollectRows(rows, scanBorrowerRow)
	if err != nil {
		return nil, fmt.Errorf("failed to collect borrowers: %w", err)
	}
	return mapping.ToDomainBorrowerSlice(ms), nil
}

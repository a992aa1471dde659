package repositories

import (
	"context"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
)

// BorrowerReader defines read operations for borrower data.
type BorrowerReader interface {
	// FindBorrowerByID retrieves a borrower by its unique identifier.
	FindBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)

	// FindBorrowerByPhone retrieves a borrower by normalized phone number.
	FindBorrowerByPhone(ctx context.Context, phoneNumber string) (*domain.Borrower, error)

	// FindBorrowersByName retrieves borrowers matching first and last name
	// case-insensitively, optionally narrowed by email. Multiple matches are
	// returned as-is; disambiguation is the caller's concern.
	FindBorrowersByName(ctx context.Context, firstName, lastName, email string) ([]domain.Borrower, error)

	// ListBorrowers retrieves all borrowers.
	ListBorrowers(ctx context.Context) ([]domain.Borrower, error)
}

// BorrowerWriter defines write operations for borrower data.
type BorrowerWriter interface {
	// SaveBorrower persists a new borrower.
	SaveBorrower(ctx context.Context, borrower domain.Borrower) error

	// UpdateBorrower persists mutations to an existing borrower.
	UpdateBorrower(ctx context.Context, borrower domain.Borrower) error

	// DeleteBorrower removes a borrower.
	DeleteBorrower(ctx context.Context, borrowerID string) error
}

// BorrowerRepositoryFacade combines all borrower-related repository interfaces.
type BorrowerRepositoryFacade interface {
	BorrowerReader
	BorrowerWriter
}

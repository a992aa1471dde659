package services

import (
	"context"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/dto"
)

// BorrowerReaderSvc defines read operations for borrowers.
type BorrowerReaderSvc interface {
	// GetBorrowerByID retrieves a borrower by ID.
	GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error)

	// ListBorrowers retrieves all borrowers.
	ListBorrowers(ctx context.Context) ([]domain.Borrower, error)

	// ResolveBorrower finds a single borrower by phone first, then by name
	// (optionally narrowed by email). Ambiguous name matches are a validation
	// error so that bulk import can report and skip the row.
	ResolveBorrower(ctx context.Context, phoneNumber, firstName, lastName, email string) (*domain.Borrower, error)
}

// BorrowerWriterSvc defines write operations for borrowers.
type BorrowerWriterSvc interface {
	// CreateBorrower persists a new borrower.
	CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, creatorUserID string) (*domain.Borrower, error)

	// UpdateBorrower applies partial updates to a borrower.
	UpdateBorrower(ctx context.Context, borrowerID string, req dto.UpdateBorrowerRequest, updaterUserID string) (*domain.Borrower, error)

	// DeleteBorrower removes a borrower.
	DeleteBorrower(ctx context.Context, borrowerID string) error
}

// BorrowerSvcFacade combines all borrower-related service interfaces.
type BorrowerSvcFacade interface {
	BorrowerReaderSvc
	BorrowerWriterSvc
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
)

// borrowerService provides borrower registration and lookup, including the
// resolution rules used by bulk loan import.
type borrowerService struct {
	borrowerRepo portsrepo.BorrowerRepositoryFacade
	clock        portssvc.Clock
}

// NewBorrowerService creates a new borrower service.
func NewBorrowerService(borrowerRepo portsrepo.BorrowerRepositoryFacade, clock portssvc.Clock) portssvc.BorrowerSvcFacade {
	return &borrowerService{borrowerRepo: borrowerRepo, clock: clock}
}

var _ portssvc.BorrowerSvcFacade = (*borrowerService)(nil)

// NormalizeGhanaPhone canonicalizes a Ghanaian phone number to +233 form.
// Already-international numbers pass through with separators stripped.
func NormalizeGhanaPhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case strings.HasPrefix(cleaned, "233"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return "+233" + cleaned[1:]
	}
	return cleaned
}

func (s *borrowerService) CreateBorrower(ctx context.Context, req dto.CreateBorrowerRequest, creatorUserID string) (*domain.Borrower, error) {
	phone := NormalizeGhanaPhone(req.PhoneNumber)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", apperrors.ErrValidation)
	}

	if existing, err := s.borrowerRepo.FindBorrowerByPhone(ctx, phone); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: borrower with phone %s already exists", apperrors.ErrDuplicate, phone)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing borrower: %w", err)
	}

	now := s.clock.Now()
	borrower := domain.Borrower{
		BorrowerID:  uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: phone,
		Email:       strings.TrimSpace(req.Email),
		Address:     req.Address,
		Region:      req.Region,

		IDDocType:   req.IDDocType,
		IDDocNumber: req.IDDocNumber,
		IDDocExpiry: req.IDDocExpiry,

		GuarantorName:         req.GuarantorName,
		GuarantorRelationship: req.GuarantorRelationship,
		GuarantorPhone:        NormalizeGhanaPhone(req.GuarantorPhone),
		GuarantorAddress:      req.GuarantorAddress,

		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.borrowerRepo.SaveBorrower(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to create borrower: %w", err)
	}
	return &borrower, nil
}

func (s *borrowerService) GetBorrowerByID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.FindBorrowerByID(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get borrower: %w", err)
	}
	return borrower, nil
}

func (s *borrowerService) ListBorrowers(ctx context.Context) ([]domain.Borrower, error) {
	borrowers, err := s.borrowerRepo.ListBorrowers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	return borrowers, nil
}

// ResolveBorrower finds exactly one borrower: phone match wins, then a
// case-insensitive name match optionally narrowed by email. Zero name matches
// is ErrNotFound; more than one is a validation error the caller can report
// per-record.
func (s *borrowerService) ResolveBorrower(ctx context.Context, phoneNumber, firstName, lastName, email string) (*domain.Borrower, error) {
	if phone := NormalizeGhanaPhone(phoneNumber); phone != "" {
		borrower, err := s.borrowerRepo.FindBorrowerByPhone(ctx, phone)
		if err == nil {
			return borrower, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up borrower by phone: %w", err)
		}
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: missing or unmatched borrower (provide phone or full name)", apperrors.ErrValidation)
	}

	matches, err := s.borrowerRepo.FindBorrowersByName(ctx, firstName, lastName, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up borrower by name: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: borrower not found by name %s %s", apperrors.ErrNotFound, firstName, lastName)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: multiple borrowers match name %s %s, include phone or email", apperrors.ErrValidation, firstName, lastName)
	}
}

func (s *borrowerService) UpdateBorrower(ctx context.Context, borrowerID string, req dto.UpdateBorrowerRequest, updaterUserID string) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.FindBorrowerByID(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get borrower for update: %w", err)
	}

	if req.FirstName != nil {
		borrower.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		borrower.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		phone := NormalizeGhanaPhone(*req.PhoneNumber)
		if phone == "" {
			return nil, fmt.Errorf("%w: phone number cannot be empty", apperrors.ErrValidation)
		}
		borrower.PhoneNumber = phone
	}
	if req.Email != nil {
		borrower.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		borrower.Address = *req.Address
	}
	if req.Region != nil {
		borrower.Region = *req.Region
	}

	borrower.LastUpdatedAt = s.clock.Now()
	borrower.LastUpdatedBy = updaterUserID

	if err := s.borrowerRepo.UpdateBorrower(ctx, *borrower); err != nil {
		return nil, fmt.Errorf("failed to update borrower: %w", err)
	}
	return borrower, nil
}

func (s *borrowerService) DeleteBorrower(ctx context.Context, borrowerID string) error {
	if err := s.borrowerRepo.DeleteBorrower(ctx, borrowerID); err != nil {
		return fmt.Errorf("failed to delete borrower: %w", err)
	}
	return nil
}

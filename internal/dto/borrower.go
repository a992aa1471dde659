package dto

import (
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
)

// CreateBorrowerRequest defines the data needed to register a borrower.
type CreateBorrowerRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	Region      string `json:"region"`

	IDDocType   domain.IDDocumentType `json:"idDocType" binding:"omitempty,oneof=nid pp voter"`
	IDDocNumber string                `json:"idDocNumber"`
	IDDocExpiry *time.Time            `json:"idDocExpiry,omitempty"`

	GuarantorName         string `json:"guarantorName"`
	GuarantorRelationship string `json:"guarantorRelationship"`
	GuarantorPhone        string `json:"guarantorPhone"`
	GuarantorAddress      string `json:"guarantorAddress"`
}

// UpdateBorrowerRequest defines partial updates to a borrower.
type UpdateBorrowerRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	Region      *string `json:"region,omitempty"`
}

// BorrowerResponse defines the data returned for a borrower.
type BorrowerResponse struct {
	BorrowerID  string `json:"borrowerID"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Region      string `json:"region,omitempty"`

	IDDocType   domain.IDDocumentType `json:"idDocType,omitempty"`
	IDDocNumber string                `json:"idDocNumber,omitempty"`
	IDDocExpiry *time.Time            `json:"idDocExpiry,omitempty"`

	GuarantorName         string `json:"guarantorName,omitempty"`
	GuarantorRelationship string `json:"guarantorRelationship,omitempty"`
	GuarantorPhone        string `json:"guarantorPhone,omitempty"`
	GuarantorAddress      string `json:"guarantorAddress,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToBorrowerResponse converts a domain.Borrower to BorrowerResponse.
func ToBorrowerResponse(b *domain.Borrower) BorrowerResponse {
	return BorrowerResponse{
		BorrowerID:  b.BorrowerID,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		PhoneNumber: b.PhoneNumber,
		Email:       b.Email,
		Address:     b.Address,
		Region:      b.Region,

		IDDocType:   b.IDDocType,
		IDDocNumber: b.IDDocNumber,
		IDDocExpiry: b.IDDocExpiry,

		GuarantorName:         b.GuarantorName,
		GuarantorRelationship: b.GuarantorRelationship,
		GuarantorPhone:        b.GuarantorPhone,
		GuarantorAddress:      b.GuarantorAddress,

		CreatedAt:     b.CreatedAt,
		CreatedBy:     b.CreatedBy,
		LastUpdatedAt: b.LastUpdatedAt,
		LastUpdatedBy: b.LastUpdatedBy,
	}
}

// ToListBorrowerResponse converts a slice of domain.Borrower to DTOs.
func ToListBorrowerResponse(borrowers []domain.Borrower) []BorrowerResponse {
	res := make([]BorrowerResponse, len(borrowers))
	for i := range borrowers {
		res[i] = ToBorrowerResponse(&borrowers[i])
	}
	return res
}

package mapping

import (
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/models"
)

// ToModelBorrower converts a domain Borrower to a model Borrower
func ToModelBorrower(d domain.Borrower) models.Borrower {
	return models.Borrower{
		BorrowerID:  d.BorrowerID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		Address:     d.Address,
		Region:      d.Region,

		IDDocType:   string(d.IDDocType),
		IDDocNumber: d.IDDocNumber,
		IDDocExpiry: d.IDDocExpiry,

		GuarantorName:         d.GuarantorName,
		GuarantorRelationship: d.GuarantorRelationship,
		GuarantorPhone:        d.GuarantorPhone,
		GuarantorAddress:      d.GuarantorAddress,

		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBorrower converts a model Borrower to a domain Borrower
func ToDomainBorrower(m models.Borrower) domain.Borrower {
	return domain.Borrower{
		BorrowerID:  m.BorrowerID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		Address:     m.Address,
		Region:      m.Region,

		IDDocType:   domain.IDDocumentType(m.IDDocType),
		IDDocNumber: m.IDDocNumber,
		IDDocExpiry: m.IDDocExpiry,

		GuarantorName:         m.GuarantorName,
		GuarantorRelationship: m.GuarantorRelationship,
		GuarantorPhone:        m.GuarantorPhone,
		GuarantorAddress:      m.GuarantorAddress,

		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBorrowerSlice converts a slice of model Borrowers to domain Borrowers
func ToDomainBorrowerSlice(ms []models.Borrower) []domain.Borrower {
	ds := make([]domain.Borrower, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBorrower(m)
	}
	return ds
}

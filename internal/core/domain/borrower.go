package domain

import "time"

// IDDocumentType is the kind of identification document on file.
type IDDocumentType string

const (
	IDDocNationalID IDDocumentType = "nid"
	IDDocPassport   IDDocumentType = "pp"
	IDDocVoterID    IDDocumentType = "voter"
)

// Borrower is the person a loan is issued to, with optional guarantor details.
type Borrower struct {
	BorrowerID  string `json:"borrowerID"` // Primary Key (UUID)
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Region      string `json:"region"`

	IDDocType   IDDocumentType `json:"idDocType,omitempty"`
	IDDocNumber string         `json:"idDocNumber,omitempty"`
	IDDocExpiry *time.Time     `json:"idDocExpiry,omitempty"`

	GuarantorName         string `json:"guarantorName,omitempty"`
	GuarantorRelationship string `json:"guarantorRelationship,omitempty"`
	GuarantorPhone        string `json:"guarantorPhone,omitempty"`
	GuarantorAddress      string `json:"guarantorAddress,omitempty"`

	AuditFields
}

// FullName returns the borrower's display name.
func (b *Borrower) FullName() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}

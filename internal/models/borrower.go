package models

import "time"

// Borrower represents a loan customer row.
type Borrower struct {
	BorrowerID  string `db:"borrower_id"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	PhoneNumber string `db:"phone_number"` // Normalized to +233 form
	Email       string `db:"email"`
	Address     string `db:"address"`
	Region      string `db:"region"`

	IDDocType   string     `db:"id_doc_type"`
	IDDocNumber string     `db:"id_doc_number"`
	IDDocExpiry *time.Time `db:"id_doc_expiry"` // Nullable

	GuarantorName         string `db:"guarantor_name"`
	GuarantorRelationship string `db:"guarantor_relationship"`
	GuarantorPhone        string `db:"guarantor_phone"`
	GuarantorAddress      string `db:"guarantor_address"`

	AuditFields
}

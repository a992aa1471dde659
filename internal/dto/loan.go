package dto

import (
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to create a new loan.
// InterestRate may be omitted; it defaults by currency (GHS 10.00, USD 9.00).
type CreateLoanRequest struct {
	BorrowerID   string           `json:"borrowerID" binding:"required"`
	ProductName  string           `json:"productName"`
	Currency     domain.Currency  `json:"currency" binding:"required,loancurrency"`
	Principal    decimal.Decimal  `json:"principal" binding:"required"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	StartDate    time.Time        `json:"startDate" binding:"required"`
	TermMonths   int              `json:"termMonths" binding:"required,min=1"`
	Description  string           `json:"description"`
}

// UpdateLoanRequest defines the mutable aspects of a loan. AdditionalPrincipal
// tops up the principal; IsRollover=true rolls the loan over once.
type UpdateLoanRequest struct {
	AdditionalPrincipal *decimal.Decimal `json:"additionalPrincipal,omitempty"`
	IsRollover          *bool            `json:"isRollover,omitempty"`
	ProductName         *string          `json:"productName,omitempty"`
	Description         *string          `json:"description,omitempty"`
}

// LoanResponse defines the data returned for a loan, including the fields
// computed by the accrual engine.
type LoanResponse struct {
	LoanID             string            `json:"loanID"`
	BorrowerID         string            `json:"borrowerID"`
	ProductName        string            `json:"productName"`
	Currency           domain.Currency   `json:"currency"`
	Principal          decimal.Decimal   `json:"principal"`
	InterestRate       decimal.Decimal   `json:"interestRate"`
	StartDate          time.Time         `json:"startDate"`
	TermMonths         int               `json:"termMonths"`
	OriginalTermMonths int               `json:"originalTermMonths"`
	RolloverCount      int               `json:"rolloverCount"`
	IsRollover         bool              `json:"isRollover"`
	Status             domain.LoanStatus `json:"status"`
	Description        string            `json:"description,omitempty"`

	MonthlyInterestPayment decimal.Decimal `json:"monthlyInterestPayment"`
	EffectiveTermMonths    int             `json:"effectiveTermMonths"`
	DueDate                time.Time       `json:"dueDate"`
	TotalInterest          decimal.Decimal `json:"totalInterest"`
	TotalToPay             decimal.Decimal `json:"totalToPay"`
	TotalPaid              decimal.Decimal `json:"totalPaid"`
	RemainingToPay         decimal.Decimal `json:"remainingToPay"`
	RemainingTermMonths    int             `json:"remainingTermMonths"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// UpdateLoanResponse pairs the updated loan with the audit diff of the update.
type UpdateLoanResponse struct {
	Loan    LoanResponse     `json:"loan"`
	Changes domain.ChangeSet `json:"changes"`
}

// LoanImportRowError reports one failed row of a bulk import.
type LoanImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// LoanImportReport summarizes a bulk import: rows that failed are reported
// here, rows that succeeded were committed.
type LoanImportReport struct {
	Created int                  `json:"created"`
	Updated int                  `json:"updated"`
	Errors  []LoanImportRowError `json:"errors,omitempty"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse, computing the derived
// fields as of the given time.
func ToLoanResponse(loan *domain.Loan, asOf time.Time) LoanResponse {
	return LoanResponse{
		LoanID:             loan.LoanID,
		BorrowerID:         loan.BorrowerID,
		ProductName:        loan.ProductName,
		Currency:           loan.Currency,
		Principal:          loan.Principal,
		InterestRate:       loan.InterestRate,
		StartDate:          loan.StartDate,
		TermMonths:         loan.TermMonths,
		OriginalTermMonths: loan.OriginalTermMonths,
		RolloverCount:      loan.RolloverCount,
		IsRollover:         loan.IsRollover,
		Status:             loan.Status,
		Description:        loan.Description,

		MonthlyInterestPayment: loan.MonthlyInterestPayment(),
		EffectiveTermMonths:    loan.EffectiveTermMonths(),
		DueDate:                loan.DueDate(),
		TotalInterest:          loan.TotalInterest(),
		TotalToPay:             loan.TotalToPay(),
		TotalPaid:              loan.TotalPaid(),
		RemainingToPay:         loan.RemainingToPay(),
		RemainingTermMonths:    loan.RemainingTermMonths(asOf),

		CreatedAt:     loan.CreatedAt,
		CreatedBy:     loan.CreatedBy,
		LastUpdatedAt: loan.LastUpdatedAt,
		LastUpdatedBy: loan.LastUpdatedBy,
	}
}

// ToListLoanResponse converts a slice of domain.Loan to LoanResponse DTOs.
func ToListLoanResponse(loans []domain.Loan, asOf time.Time) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i], asOf)
	}
	return res
}

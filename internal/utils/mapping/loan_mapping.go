package mapping

import (
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:             d.LoanID,
		BorrowerID:         d.BorrowerID,
		ProductName:        d.ProductName,
		Currency:           string(d.Currency),
		Principal:          d.Principal,
		InterestRate:       d.InterestRate,
		StartDate:          d.StartDate,
		TermMonths:         d.TermMonths,
		OriginalTermMonths: d.OriginalTermMonths,
		RolloverCount:      d.RolloverCount,
		IsRollover:         d.IsRollover,
		Status:             string(d.Status),
		Description:        d.Description,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan. Repayments are loaded
// and attached separately by the repository.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:             m.LoanID,
		BorrowerID:         m.BorrowerID,
		ProductName:        m.ProductName,
		Currency:           domain.Currency(m.Currency),
		Principal:          m.Principal,
		InterestRate:       m.InterestRate,
		StartDate:          m.StartDate,
		TermMonths:         m.TermMonths,
		OriginalTermMonths: m.OriginalTermMonths,
		RolloverCount:      m.RolloverCount,
		IsRollover:         m.IsRollover,
		Status:             domain.LoanStatus(m.Status),
		Description:        m.Description,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}

// ToModelRepayment converts a domain Repayment to a model Repayment
func ToModelRepayment(d domain.Repayment) models.Repayment {
	return models.Repayment{
		RepaymentID: d.RepaymentID,
		LoanID:      d.LoanID,
		Date:        d.Date,
		Amount:      d.Amount,
		Method:      string(d.Method),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRepayment converts a model Repayment to a domain Repayment
func ToDomainRepayment(m models.Repayment) domain.Repayment {
	return domain.Repayment{
		RepaymentID: m.RepaymentID,
		LoanID:      m.LoanID,
		Date:        m.Date,
		Amount:      m.Amount,
		Method:      domain.RepaymentMethod(m.Method),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRepaymentSlice converts a slice of model Repayments to domain Repayments
func ToDomainRepaymentSlice(ms []models.Repayment) []domain.Repayment {
	ds := make([]domain.Repayment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRepayment(m)
	}
	return ds
}

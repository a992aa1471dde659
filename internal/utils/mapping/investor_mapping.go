package mapping

import (
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/models"
)

// ToModelInvestor converts a domain Investor to a model Investor
func ToModelInvestor(d domain.Investor) models.Investor {
	return models.Investor{
		InvestorID:             d.InvestorID,
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		PhoneNumber:            d.PhoneNumber,
		Email:                  d.Email,
		Region:                 d.Region,
		Currency:               string(d.Currency),
		InvestmentPeriodMonths: d.InvestmentPeriodMonths,
		FundsAvailable:         d.FundsAvailable,
		ProfitEarned:           d.ProfitEarned,
		ProfitPaid:             d.ProfitPaid,
		ProfitPaidDate:         d.ProfitPaidDate,
		LastProfitCalculation:  d.LastProfitCalculation,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvestor converts a model Investor to a domain Investor. The
// transaction ledger is loaded and attached separately by the repository.
func ToDomainInvestor(m models.Investor) domain.Investor {
	return domain.Investor{
		InvestorID:             m.InvestorID,
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		PhoneNumber:            m.PhoneNumber,
		Email:                  m.Email,
		Region:                 m.Region,
		Currency:               domain.Currency(m.Currency),
		InvestmentPeriodMonths: m.InvestmentPeriodMonths,
		FundsAvailable:         m.FundsAvailable,
		ProfitEarned:           m.ProfitEarned,
		ProfitPaid:             m.ProfitPaid,
		ProfitPaidDate:         m.ProfitPaidDate,
		LastProfitCalculation:  m.LastProfitCalculation,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvestorTransaction converts a domain ledger entry to a model row
func ToModelInvestorTransaction(d domain.InvestorTransaction) models.InvestorTransaction {
	return models.InvestorTransaction{
		TransactionID: d.TransactionID,
		InvestorID:    d.InvestorID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Date:          d.Date,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainInvestorTransaction converts a model row to a domain ledger entry
func ToDomainInvestorTransaction(m models.InvestorTransaction) domain.InvestorTransaction {
	return domain.InvestorTransaction{
		TransactionID: m.TransactionID,
		InvestorID:    m.InvestorID,
		Type:          domain.InvestorTransactionType(m.Type),
		Amount:        m.Amount,
		Date:          m.Date,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainInvestorTransactionSlice converts model rows to domain ledger entries
func ToDomainInvestorTransactionSlice(ms []models.InvestorTransaction) []domain.InvestorTransaction {
	ds := make([]domain.InvestorTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvestorTransaction(m)
	}
	return ds
}

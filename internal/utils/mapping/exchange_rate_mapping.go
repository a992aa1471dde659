package mapping

import (
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		FromCurrency:   string(d.FromCurrency),
		ToCurrency:     string(d.ToCurrency),
		Rate:           d.Rate,
		LastUpdated:    d.LastUpdated,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		FromCurrency:   domain.Currency(m.FromCurrency),
		ToCurrency:     domain.Currency(m.ToCurrency),
		Rate:           m.Rate,
		LastUpdated:    m.LastUpdated,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

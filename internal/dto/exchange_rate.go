package dto

import (
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertExchangeRateRequest defines the data needed to record a rate.
type UpsertExchangeRateRequest struct {
	FromCurrency domain.Currency `json:"fromCurrency" binding:"required,loancurrency"`
	ToCurrency   domain.Currency `json:"toCurrency" binding:"required,loancurrency"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
}

// ExchangeRateResponse defines the data returned for an exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   domain.Currency `json:"fromCurrency"`
	ToCurrency     domain.Currency `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// ConvertResponse reports a currency conversion at the stored rate.
type ConvertResponse struct {
	FromCurrency domain.Currency `json:"fromCurrency"`
	ToCurrency   domain.Currency `json:"toCurrency"`
	Amount       decimal.Decimal `json:"amount"`
	Converted    decimal.Decimal `json:"converted"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to a DTO.
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		FromCurrency:   rate.FromCurrency,
		ToCurrency:     rate.ToCurrency,
		Rate:           rate.Rate,
		LastUpdated:    rate.LastUpdated,
	}
}

package services

import (
	"context"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rates.
type ExchangeRateReaderSvc interface {
	// GetRate retrieves the rate for a currency pair, seeding the USD->GHS
	// default when none has been recorded yet.
	GetRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error)

	// Convert converts an amount between the supported currencies at the
	// stored rate, rounded to 2 decimal places.
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rates.
type ExchangeRateWriterSvc interface {
	// SetRate records a new rate for a currency pair.
	SetRate(ctx context.Context, req dto.UpsertExchangeRateRequest, actorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces.
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

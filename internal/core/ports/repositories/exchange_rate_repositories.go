package repositories

import (
	"context"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
)

// ExchangeRateRepository defines persistence operations for exchange rates.
type ExchangeRateRepository interface {
	// FindExchangeRate retrieves the rate for a currency pair.
	FindExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error)

	// UpsertExchangeRate inserts or updates the rate for a currency pair.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

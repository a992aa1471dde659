package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepository
	clock    portssvc.Clock
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository, clock portssvc.Clock) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo, clock: clock}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// GetRate returns the stored rate for a pair. The USD->GHS pair is seeded
// with the default rate on first access so conversion always has a value.
func (s *exchangeRateService) GetRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency pair %s/%s", apperrors.ErrValidation, from, to)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	if from == domain.CurrencyUSD && to == domain.CurrencyGHS {
		seeded := domain.ExchangeRate{
			ExchangeRateID: uuid.NewString(),
			FromCurrency:   from,
			ToCurrency:     to,
			Rate:           domain.DefaultUSDToGHSRate,
			LastUpdated:    s.clock.Now(),
		}
		if err := s.rateRepo.UpsertExchangeRate(ctx, seeded); err != nil {
			return nil, fmt.Errorf("failed to seed default exchange rate: %w", err)
		}
		return &seeded, nil
	}
	return nil, err
}

// Convert converts amount from one supported currency to another at the
// stored rate. Same-currency conversion is the identity.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Convert(amount), nil
}

// SetRate records a new rate for a currency pair.
func (s *exchangeRateService) SetRate(ctx context.Context, req dto.UpsertExchangeRateRequest, actorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrency == req.ToCurrency {
		return nil, fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   req.FromCurrency,
		ToCurrency:     req.ToCurrency,
		Rate:           req.Rate.Round(4),
		LastUpdated:    now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.rateRepo.UpsertExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return &rate, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	"github.com/comloan/loan_mgmt_app/internal/models"
	"github.com/comloan/loan_mgmt_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// FindExchangeRate retrieves the rate for a currency pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency, to_currency, rate, last_updated,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2;
	`
	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, string(from), string(to)).Scan(
		&m.ExchangeRateID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.Rate,
		&m.LastUpdated,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s->%s: %w", from, to, err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// UpsertExchangeRate inserts or updates the rate for a currency pair.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (exchange_rate_id, from_currency, to_currency, rate, last_updated,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (from_currency, to_currency) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated = EXCLUDED.last_updated,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExchangeRateID,
		m.FromCurrency,
		m.ToCurrency,
		m.Rate,
		m.LastUpdated,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate %s->%s: %w", m.FromCurrency, m.ToCurrency, err)
	}
	return nil
}

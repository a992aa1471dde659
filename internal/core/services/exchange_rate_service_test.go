package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/core/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExchangeRateRepository
	service  portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRepo, newFixedClock(2025, time.June, 15))
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SeedsUSDToGHSDefault() {
	ctx := context.Background()

	suite.mockRepo.On("FindExchangeRate", ctx, domain.CurrencyUSD, domain.CurrencyGHS).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpsertExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Rate.Equal(domain.DefaultUSDToGHSRate)
	})).Return(nil).Once()

	rate, err := suite.service.GetRate(ctx, domain.CurrencyUSD, domain.CurrencyGHS)

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(domain.DefaultUSDToGHSRate))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_MissingNonDefaultPair() {
	ctx := context.Background()

	suite.mockRepo.On("FindExchangeRate", ctx, domain.CurrencyGHS, domain.CurrencyUSD).
		Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.GetRate(ctx, domain.CurrencyGHS, domain.CurrencyUSD)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_InvalidCurrency() {
	ctx := context.Background()

	rate, err := suite.service.GetRate(ctx, domain.Currency("EUR"), domain.CurrencyGHS)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_UsesStoredRate() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   domain.CurrencyUSD,
		ToCurrency:     domain.CurrencyGHS,
		Rate:           decimal.RequireFromString("15.5000"),
	}

	suite.mockRepo.On("FindExchangeRate", ctx, domain.CurrencyUSD, domain.CurrencyGHS).
		Return(stored, nil).Once()

	converted, err := suite.service.Convert(ctx, decimal.NewFromInt(100), domain.CurrencyUSD, domain.CurrencyGHS)

	suite.Require().NoError(err)
	suite.True(converted.Equal(decimal.RequireFromString("1550.00")), "got %s", converted)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_SameCurrencyIdentity() {
	ctx := context.Background()

	converted, err := suite.service.Convert(ctx, decimal.NewFromInt(42), domain.CurrencyGHS, domain.CurrencyGHS)

	suite.Require().NoError(err)
	suite.True(converted.Equal(decimal.NewFromInt(42)))
	suite.mockRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestSetRate_RoundsToFourPlaces() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrency: domain.CurrencyUSD,
		ToCurrency:   domain.CurrencyGHS,
		Rate:         decimal.RequireFromString("15.12345"),
	}

	suite.mockRepo.On("UpsertExchangeRate", ctx, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.Rate.Equal(decimal.RequireFromString("15.1235"))
	})).Return(nil).Once()

	rate, err := suite.service.SetRate(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("15.1235")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestSetRate_RejectsNonPositive() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrency: domain.CurrencyUSD,
		ToCurrency:   domain.CurrencyGHS,
		Rate:         decimal.Zero,
	}

	rate, err := suite.service.SetRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestSetRate_RejectsSamePair() {
	ctx := context.Background()
	req := dto.UpsertExchangeRateRequest{
		FromCurrency: domain.CurrencyGHS,
		ToCurrency:   domain.CurrencyGHS,
		Rate:         decimal.NewFromInt(1),
	}

	rate, err := suite.service.SetRate(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

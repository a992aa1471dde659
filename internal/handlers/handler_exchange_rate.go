package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/comloan/loan_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService: rs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.PUT("", h.setRate)
		rates.GET("/convert", h.convert)
		rates.GET("/:from/:to", h.getRate)
	}
}

// getRate godoc
// @Summary Get the rate for a currency pair
// @Description Retrieves the stored rate. The USD to GHS pair is seeded with a default on first access.
// @Tags exchange-rates
// @Produce  json
// @Param   from path string true "Source currency (GHS or USD)"
// @Param   to path string true "Target currency (GHS or USD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Unsupported currency"
// @Failure 404 {object} map[string]string "Rate not recorded"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := domain.Currency(c.Param("from"))
	to := domain.Currency(c.Param("to"))

	rate, err := h.rateService.GetRate(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate recorded for this currency pair"})
		} else {
			logger.Error("Failed to get exchange rate", slog.String("from", string(from)), slog.String("to", string(to)), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// setRate godoc
// @Summary Record an exchange rate
// @Description Inserts or updates the rate for a currency pair, rounded to 4 decimal places
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.UpsertExchangeRateRequest true "Rate details"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to record rate"
// @Router /exchange-rates [put]
func (h *exchangeRateHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.rateService.SetRate(c.Request.Context(), req, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record rate"})
		}
		return
	}

	logger.Info("Exchange rate recorded", slog.String("from", string(rate.FromCurrency)), slog.String("to", string(rate.ToCurrency)))
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts the amount at the stored rate, rounded to 2 decimal places
// @Tags exchange-rates
// @Produce  json
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   amount query string true "Amount to convert"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Rate not recorded"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := domain.Currency(c.Query("from"))
	to := domain.Currency(c.Query("to"))

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: must be a decimal number"})
		return
	}

	converted, err := h.rateService.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate recorded for this currency pair"})
		} else {
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       amount,
		Converted:    converted,
	})
}

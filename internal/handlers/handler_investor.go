package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/comloan/loan_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// investorHandler handles HTTP requests related to investors.
type investorHandler struct {
	investorService portssvc.InvestorSvcFacade
}

// newInvestorHandler creates a new investorHandler.
func newInvestorHandler(is portssvc.InvestorSvcFacade) *investorHandler {
	return &investorHandler{
		investorService: is,
	}
}

// registerInvestorRoutes registers routes related to investors.
func registerInvestorRoutes(rg *gin.RouterGroup, investorService portssvc.InvestorSvcFacade) {
	h := newInvestorHandler(investorService)

	investors := rg.Group("/investors")
	{
		investors.POST("", h.createInvestor)
		investors.GET("", h.listInvestors)
		investors.GET("/:investorID", h.getInvestorByID)
		investors.GET("/:investorID/transactions", h.listTransactions)
		investors.POST("/:investorID/topup", h.recordTopup)
		investors.POST("/:investorID/withdrawal", h.recordWithdrawal)
		investors.POST("/:investorID/profit/calculate", h.calculateProfit)
		investors.POST("/:investorID/profit/mark-paid", h.markProfitPaid)
	}
}

// createInvestor godoc
// @Summary Register a new investor
// @Description Registers an investor. A positive initial deposit becomes the first ledger entry.
// @Tags investors
// @Accept  json
// @Produce  json
// @Param   investor body dto.CreateInvestorRequest true "Investor details"
// @Success 201 {object} dto.InvestorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create investor"
// @Router /investors [post]
func (h *investorHandler) createInvestor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvestor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.investorService.CreateInvestor(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating investor", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create investor in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investor"})
		}
		return
	}

	logger.Info("Investor created successfully", slog.String("investor_id", created.InvestorID))
	c.JSON(http.StatusCreated, dto.ToInvestorResponse(created))
}

// listInvestors godoc
// @Summary List investors
// @Tags investors
// @Produce  json
// @Success 200 {array} dto.InvestorResponse
// @Failure 500 {object} map[string]string "Failed to list investors"
// @Router /investors [get]
func (h *investorHandler) listInvestors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	investors, err := h.investorService.ListInvestors(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list investors", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list investors"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvestorResponse(investors))
}

// getInvestorByID godoc
// @Summary Get an investor by ID
// @Tags investors
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Success 200 {object} dto.InvestorResponse
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 500 {object} map[string]string "Failed to retrieve investor"
// @Router /investors/{investorID} [get]
func (h *investorHandler) getInvestorByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID := c.Param("investorID")

	investor, err := h.investorService.GetInvestorByID(c.Request.Context(), investorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		} else {
			logger.Error("Failed to get investor", slog.String("investor_id", investorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve investor"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInvestorResponse(investor))
}

// listTransactions godoc
// @Summary Get an investor's statement
// @Description Retrieves the investor's transaction ledger in chronological order
// @Tags investors
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Success 200 {array} dto.InvestorTransactionResponse
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /investors/{investorID}/transactions [get]
func (h *investorHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID := c.Param("investorID")

	txns, err := h.investorService.ListTransactions(c.Request.Context(), investorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		} else {
			logger.Error("Failed to list transactions", slog.String("investor_id", investorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvestorTransactionResponse(txns))
}

// recordTopup godoc
// @Summary Record an investor topup
// @Description Appends a topup to the ledger and credits available funds atomically
// @Tags investors
// @Accept  json
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Param   transaction body dto.InvestorTransactionRequest true "Topup amount"
// @Success 201 {object} dto.InvestorTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 500 {object} map[string]string "Failed to record topup"
// @Router /investors/{investorID}/topup [post]
func (h *investorHandler) recordTopup(c *gin.Context) {
	h.recordTransaction(c, h.investorService.RecordTopup, "topup")
}

// recordWithdrawal godoc
// @Summary Record an investor withdrawal
// @Description Appends a withdrawal to the ledger and debits available funds atomically. Overdrafts are rejected.
// @Tags investors
// @Accept  json
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Param   transaction body dto.InvestorTransactionRequest true "Withdrawal amount"
// @Success 201 {object} dto.InvestorTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to record withdrawal"
// @Router /investors/{investorID}/withdrawal [post]
func (h *investorHandler) recordWithdrawal(c *gin.Context) {
	h.recordTransaction(c, h.investorService.RecordWithdrawal, "withdrawal")
}

// recordTransaction is the shared body of the topup and withdrawal endpoints.
func (h *investorHandler) recordTransaction(
	c *gin.Context,
	record func(ctx context.Context, investorID string, req dto.InvestorTransactionRequest, actorUserID string) (*domain.InvestorTransaction, error),
	kind string,
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID := c.Param("investorID")

	var req dto.InvestorTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for investor transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := record(c.Request.Context(), investorID, req, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		} else if errors.Is(err, apperrors.ErrInsufficientFunds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient funds for withdrawal"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record investor transaction", slog.String("investor_id", investorID), slog.String("kind", kind), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record " + kind})
		}
		return
	}

	logger.Info("Investor transaction recorded", slog.String("investor_id", investorID), slog.String("kind", kind))
	c.JSON(http.StatusCreated, dto.ToInvestorTransactionResponse(txn))
}

// calculateProfit godoc
// @Summary Run the quarterly profit calculation for one investor
// @Description Accrues 4% per elapsed 90-day quarter on the net invested amount. Returns zero when no full quarter has elapsed.
// @Tags investors
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Success 200 {object} dto.ProfitCalculationResponse
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 409 {object} map[string]string "Concurrent calculation detected"
// @Failure 500 {object} map[string]string "Failed to calculate profit"
// @Router /investors/{investorID}/profit/calculate [post]
func (h *investorHandler) calculateProfit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID := c.Param("investorID")

	profit, err := h.investorService.CalculateQuarterlyProfit(c.Request.Context(), investorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Profit calculation already ran for this period"})
		} else {
			logger.Error("Failed to calculate profit", slog.String("investor_id", investorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate profit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ProfitCalculationResponse{
		InvestorID:  investorID,
		TotalProfit: profit,
	})
}

// markProfitPaid godoc
// @Summary Mark accrued profit as paid out
// @Description Flags the investor's accrued profit as disbursed. Fund movement happens outside this system.
// @Tags investors
// @Produce  json
// @Param   investorID path string true "Investor ID"
// @Success 200 {object} dto.InvestorResponse
// @Failure 404 {object} map[string]string "Investor not found"
// @Failure 500 {object} map[string]string "Failed to mark profit paid"
// @Router /investors/{investorID}/profit/mark-paid [post]
func (h *investorHandler) markProfitPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	investorID := c.Param("investorID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	investor, err := h.investorService.MarkProfitPaid(c.Request.Context(), investorID, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to mark profit paid", slog.String("investor_id", investorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark profit paid"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInvestorResponse(investor))
}

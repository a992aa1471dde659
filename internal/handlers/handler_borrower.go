package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/comloan/loan_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// borrowerHandler handles HTTP requests related to borrowers.
type borrowerHandler struct {
	borrowerService portssvc.BorrowerSvcFacade
}

// newBorrowerHandler creates a new borrowerHandler.
func newBorrowerHandler(bs portssvc.BorrowerSvcFacade) *borrowerHandler {
	return &borrowerHandler{
		borrowerService: bs,
	}
}

// registerBorrowerRoutes registers routes related to borrowers.
func registerBorrowerRoutes(rg *gin.RouterGroup, borrowerService portssvc.BorrowerSvcFacade) {
	h := newBorrowerHandler(borrowerService)

	borrowers := rg.Group("/borrowers")
	{
		borrowers.POST("", h.createBorrower)
		borrowers.GET("", h.listBorrowers)
		borrowers.GET("/:borrowerID", h.getBorrowerByID)
		borrowers.PUT("/:borrowerID", h.updateBorrower)
		borrowers.DELETE("/:borrowerID", h.deleteBorrower)
	}
}

// createBorrower godoc
// @Summary Register a new borrower
// @Description Registers a borrower, normalizing Ghanaian phone numbers to +233 form
// @Tags borrowers
// @Accept  json
// @Produce  json
// @Param   borrower body dto.CreateBorrowerRequest true "Borrower details"
// @Success 201 {object} dto.BorrowerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Phone number already registered"
// @Failure 500 {object} map[string]string "Failed to create borrower"
// @Router /borrowers [post]
func (h *borrowerHandler) createBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBorrower", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.borrowerService.CreateBorrower(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to register duplicate borrower phone", slog.String("phone", req.PhoneNumber))
			c.JSON(http.StatusConflict, gin.H{"error": "A borrower with this phone number already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating borrower", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create borrower in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create borrower"})
		}
		return
	}

	logger.Info("Borrower created successfully", slog.String("borrower_id", created.BorrowerID))
	c.JSON(http.StatusCreated, dto.ToBorrowerResponse(created))
}

// listBorrowers godoc
// @Summary List borrowers
// @Description Retrieves all registered borrowers
// @Tags borrowers
// @Produce  json
// @Success 200 {array} dto.BorrowerResponse
// @Failure 500 {object} map[string]string "Failed to list borrowers"
// @Router /borrowers [get]
func (h *borrowerHandler) listBorrowers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	borrowers, err := h.borrowerService.ListBorrowers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list borrowers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list borrowers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBorrowerResponse(borrowers))
}

// getBorrowerByID godoc
// @Summary Get a borrower by ID
// @Tags borrowers
// @Produce  json
// @Param   borrowerID path string true "Borrower ID"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 404 {object} map[string]string "Borrower not found"
// @Failure 500 {object} map[string]string "Failed to retrieve borrower"
// @Router /borrowers/{borrowerID} [get]
func (h *borrowerHandler) getBorrowerByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrowerID := c.Param("borrowerID")

	borrower, err := h.borrowerService.GetBorrowerByID(c.Request.Context(), borrowerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
		} else {
			logger.Error("Failed to get borrower", slog.String("borrower_id", borrowerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve borrower"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBorrowerResponse(borrower))
}

// updateBorrower godoc
// @Summary Update a borrower
// @Description Applies partial updates to a borrower's contact details
// @Tags borrowers
// @Accept  json
// @Produce  json
// @Param   borrowerID path string true "Borrower ID"
// @Param   borrower body dto.UpdateBorrowerRequest true "Fields to update"
// @Success 200 {object} dto.BorrowerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Borrower not found"
// @Failure 500 {object} map[string]string "Failed to update borrower"
// @Router /borrowers/{borrowerID} [put]
func (h *borrowerHandler) updateBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrowerID := c.Param("borrowerID")

	var req dto.UpdateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBorrower", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.borrowerService.UpdateBorrower(c.Request.Context(), borrowerID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A borrower with this phone number already exists"})
		} else {
			logger.Error("Failed to update borrower", slog.String("borrower_id", borrowerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update borrower"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBorrowerResponse(updated))
}

// deleteBorrower godoc
// @Summary Delete a borrower
// @Tags borrowers
// @Param   borrowerID path string true "Borrower ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Borrower not found"
// @Failure 500 {object} map[string]string "Failed to delete borrower"
// @Router /borrowers/{borrowerID} [delete]
func (h *borrowerHandler) deleteBorrower(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	borrowerID := c.Param("borrowerID")

	if err := h.borrowerService.DeleteBorrower(c.Request.Context(), borrowerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
		} else {
			logger.Error("Failed to delete borrower", slog.String("borrower_id", borrowerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete borrower"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/comloan/loan_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests related to loans and repayments.
type loanHandler struct {
	loanService   portssvc.LoanSvcFacade
	importService portssvc.LoanImportSvc
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade, is portssvc.LoanImportSvc) *loanHandler {
	return &loanHandler{
		loanService:   ls,
		importService: is,
	}
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade, importService portssvc.LoanImportSvc) {
	h := newLoanHandler(loanService, importService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/export", h.exportLoans)
		loans.GET("/template", h.loanTemplate)
		loans.POST("/import", h.importLoans)
		loans.GET("/:loanID", h.getLoanByID)
		loans.PUT("/:loanID", h.updateLoan)
		loans.DELETE("/:loanID", h.deleteLoan)
		loans.POST("/:loanID/repayments", h.addRepayment)
		loans.GET("/:loanID/repayments", h.listRepayments)
	}
}

// createLoan godoc
// @Summary Create a new loan
// @Description Creates a loan with flat monthly interest. The rate defaults by currency when omitted (GHS 10%, USD 9%).
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Borrower not found"
// @Failure 500 {object} map[string]string "Failed to create loan"
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.loanService.CreateLoan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating loan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create loan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan"})
		}
		return
	}

	logger.Info("Loan created successfully", slog.String("loan_id", created.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(created, time.Now().UTC()))
}

// listLoans godoc
// @Summary List loans
// @Description Retrieves all loans with their computed accrual fields
// @Tags loans
// @Produce  json
// @Success 200 {array} dto.LoanResponse
// @Failure 500 {object} map[string]string "Failed to list loans"
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	loans, err := h.loanService.ListLoans(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list loans", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loans"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoanResponse(loans, time.Now().UTC()))
}

// getLoanByID godoc
// @Summary Get a loan by ID
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to retrieve loan"
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoanByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to get loan", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan, time.Now().UTC()))
}

// updateLoan godoc
// @Summary Update a loan
// @Description Applies a principal topup, a rollover or descriptive changes, and returns the audit diff
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   loan body dto.UpdateLoanRequest true "Fields to update"
// @Success 200 {object} dto.UpdateLoanResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to update loan"
// @Router /loans/{loanID} [put]
func (h *loanHandler) updateLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, changes, err := h.loanService.UpdateLoan(c.Request.Context(), loanID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Loan was modified concurrently, retry with fresh data"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update loan", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.UpdateLoanResponse{
		Loan:    dto.ToLoanResponse(updated, time.Now().UTC()),
		Changes: changes,
	})
}

// deleteLoan godoc
// @Summary Delete a loan
// @Description Removes a loan together with its repayments
// @Tags loans
// @Param   loanID path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to delete loan"
// @Router /loans/{loanID} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	if err := h.loanService.DeleteLoan(c.Request.Context(), loanID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to delete loan", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete loan"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// addRepayment godoc
// @Summary Record a repayment
// @Description Appends a repayment to the loan's ledger and recomputes the loan status in the same transaction
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   repayment body dto.CreateRepaymentRequest true "Repayment details"
// @Success 201 {object} dto.RepaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to record repayment"
// @Router /loans/{loanID}/repayments [post]
func (h *loanHandler) addRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.CreateRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	repayment, _, err := h.loanService.AddRepayment(c.Request.Context(), loanID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record repayment", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record repayment"})
		}
		return
	}

	logger.Info("Repayment recorded", slog.String("loan_id", loanID), slog.String("repayment_id", repayment.RepaymentID))
	c.JSON(http.StatusCreated, dto.ToRepaymentResponse(repayment))
}

// listRepayments godoc
// @Summary List a loan's repayments
// @Description Retrieves the repayments of a loan in date order with the informational running balance
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {array} dto.RepaymentBalanceResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to list repayments"
// @Router /loans/{loanID}/repayments [get]
func (h *loanHandler) listRepayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	balances, err := h.loanService.ListRepayments(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to list repayments", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list repayments"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListRepaymentBalanceResponse(balances))
}

// importLoans godoc
// @Summary Bulk import loans from CSV
// @Description Uploads a CSV file of loans. Rows with errors are reported while valid rows are committed.
// @Tags loans
// @Accept  mpfd
// @Produce  json
// @Param   file formData file true "CSV file"
// @Success 200 {object} dto.LoanImportReport
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 500 {object} map[string]string "Failed to import loans"
// @Router /loans/import [post]
func (h *loanHandler) importLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing CSV file on import request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file must be uploaded under the 'file' field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	report, err := h.importService.ImportLoansCSV(c.Request.Context(), file, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to import loans", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import loans"})
		}
		return
	}

	logger.Info("Loan import completed",
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("failed_rows", len(report.Errors)),
	)
	c.JSON(http.StatusOK, report)
}

// exportLoans godoc
// @Summary Export loans as CSV
// @Description Streams all loans, including computed accrual fields, as a CSV download
// @Tags loans
// @Produce  text/csv
// @Success 200 {string} string "CSV content"
// @Failure 500 {object} map[string]string "Failed to export loans"
// @Router /loans/export [get]
func (h *loanHandler) exportLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="loans.csv"`)

	if err := h.importService.ExportLoansCSV(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to export loans", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export loans"})
		return
	}
}

// loanTemplate godoc
// @Summary Download the loan import template
// @Description Returns a CSV containing only the header row expected by the bulk import
// @Tags loans
// @Produce  text/csv
// @Success 200 {string} string "CSV header"
// @Router /loans/template [get]
func (h *loanHandler) loanTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="loan_import_template.csv"`)

	if err := h.importService.WriteLoanTemplateCSV(c.Writer); err != nil {
		logger.Error("Failed to write loan template", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write template"})
	}
}

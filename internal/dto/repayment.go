package dto

import (
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRepaymentRequest defines the data needed to record a repayment.
// Date defaults to the current day when omitted.
type CreateRepaymentRequest struct {
	Date   *time.Time             `json:"date,omitempty"`
	Amount decimal.Decimal        `json:"amount" binding:"required"`
	Method domain.RepaymentMethod `json:"method" binding:"required,repaymentmethod"`
}

// RepaymentResponse defines the data returned for a repayment.
type RepaymentResponse struct {
	RepaymentID string                 `json:"repaymentID"`
	LoanID      string                 `json:"loanID"`
	Date        time.Time              `json:"date"`
	Amount      decimal.Decimal        `json:"amount"`
	Method      domain.RepaymentMethod `json:"method"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy"`
}

// RepaymentBalanceResponse adds the informational running balance to a
// repayment line.
type RepaymentBalanceResponse struct {
	RepaymentResponse
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// ToRepaymentResponse converts a domain.Repayment to RepaymentResponse.
func ToRepaymentResponse(r *domain.Repayment) RepaymentResponse {
	return RepaymentResponse{
		RepaymentID: r.RepaymentID,
		LoanID:      r.LoanID,
		Date:        r.Date,
		Amount:      r.Amount,
		Method:      r.Method,
		CreatedAt:   r.CreatedAt,
		CreatedBy:   r.CreatedBy,
	}
}

// ToListRepaymentBalanceResponse converts running-balance lines to DTOs.
func ToListRepaymentBalanceResponse(balances []domain.RepaymentBalance) []RepaymentBalanceResponse {
	res := make([]RepaymentBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = RepaymentBalanceResponse{
			RepaymentResponse: ToRepaymentResponse(&b.Repayment),
			RunningBalance:    b.RunningBalance,
		}
	}
	return res
}

package dto

import (
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvestorRequest defines the data needed to register an investor.
// InitialDeposit, when positive, becomes the first ledger entry.
type CreateInvestorRequest struct {
	FirstName              string          `json:"firstName" binding:"required"`
	LastName               string          `json:"lastName" binding:"required"`
	PhoneNumber            string          `json:"phoneNumber" binding:"required"`
	Email                  string          `json:"email" binding:"omitempty,email"`
	Region                 string          `json:"region"`
	Currency               domain.Currency `json:"currency" binding:"required,loancurrency"`
	InvestmentPeriodMonths int             `json:"investmentPeriodMonths" binding:"required,min=3"`
	InitialDeposit         decimal.Decimal `json:"initialDeposit"`
}

// InvestorTransactionRequest defines the amount for a topup or withdrawal.
type InvestorTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// InvestorResponse defines the data returned for an investor, including the
// computed invested base.
type InvestorResponse struct {
	InvestorID             string          `json:"investorID"`
	FirstName              string          `json:"firstName"`
	LastName               string          `json:"lastName"`
	PhoneNumber            string          `json:"phoneNumber"`
	Email                  string          `json:"email,omitempty"`
	Region                 string          `json:"region,omitempty"`
	Currency               domain.Currency `json:"currency"`
	InvestmentPeriodMonths int             `json:"investmentPeriodMonths"`
	FundsAvailable         decimal.Decimal `json:"fundsAvailable"`
	ProfitEarned           decimal.Decimal `json:"profitEarned"`
	ProfitPaid             bool            `json:"profitPaid"`
	ProfitPaidDate         *time.Time      `json:"profitPaidDate,omitempty"`
	LastProfitCalculation  *time.Time      `json:"lastProfitCalculation,omitempty"`
	TotalInvested          decimal.Decimal `json:"totalInvested"`
	CreatedAt              time.Time       `json:"createdAt"`
	CreatedBy              string          `json:"createdBy"`
}

// InvestorTransactionResponse is one statement line of an investor's ledger.
type InvestorTransactionResponse struct {
	TransactionID string                         `json:"transactionID"`
	InvestorID    string                         `json:"investorID"`
	Type          domain.InvestorTransactionType `json:"type"`
	Amount        decimal.Decimal                `json:"amount"`
	Date          time.Time                      `json:"date"`
	CreatedBy     string                         `json:"createdBy"`
}

// ProfitCalculationResponse reports the outcome of a quarterly profit run.
type ProfitCalculationResponse struct {
	InvestorID  string          `json:"investorID"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
}

// ToInvestorResponse converts a domain.Investor to InvestorResponse.
func ToInvestorResponse(inv *domain.Investor) InvestorResponse {
	return InvestorResponse{
		InvestorID:             inv.InvestorID,
		FirstName:              inv.FirstName,
		LastName:               inv.LastName,
		PhoneNumber:            inv.PhoneNumber,
		Email:                  inv.Email,
		Region:                 inv.Region,
		Currency:               inv.Currency,
		InvestmentPeriodMonths: inv.InvestmentPeriodMonths,
		FundsAvailable:         inv.FundsAvailable,
		ProfitEarned:           inv.ProfitEarned,
		ProfitPaid:             inv.ProfitPaid,
		ProfitPaidDate:         inv.ProfitPaidDate,
		LastProfitCalculation:  inv.LastProfitCalculation,
		TotalInvested:          inv.TotalInvested(),
		CreatedAt:              inv.CreatedAt,
		CreatedBy:              inv.CreatedBy,
	}
}

// ToListInvestorResponse converts a slice of domain.Investor to DTOs.
func ToListInvestorResponse(investors []domain.Investor) []InvestorResponse {
	res := make([]InvestorResponse, len(investors))
	for i := range investors {
		res[i] = ToInvestorResponse(&investors[i])
	}
	return res
}

// ToInvestorTransactionResponse converts one ledger entry to a DTO.
func ToInvestorTransactionResponse(txn *domain.InvestorTransaction) InvestorTransactionResponse {
	return InvestorTransactionResponse{
		TransactionID: txn.TransactionID,
		InvestorID:    txn.InvestorID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		Date:          txn.Date,
		CreatedBy:     txn.CreatedBy,
	}
}

// ToListInvestorTransactionResponse converts a ledger to DTOs.
func ToListInvestorTransactionResponse(txns []domain.InvestorTransaction) []InvestorTransactionResponse {
	res := make([]InvestorTransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToInvestorTransactionResponse(&txns[i])
	}
	return res
}

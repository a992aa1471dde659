package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestorTransactionType classifies a movement on an investor's ledger.
type InvestorTransactionType string

const (
	TxnDeposit    InvestorTransactionType = "deposit"
	TxnTopup      InvestorTransactionType = "topup"
	TxnWithdrawal InvestorTransactionType = "withdrawal"
	TxnReturn     InvestorTransactionType = "return"
	TxnProfit     InvestorTransactionType = "profit"
)

// IsValid reports whether t is a supported transaction type.
func (t InvestorTransactionType) IsValid() bool {
	switch t {
	case TxnDeposit, TxnTopup, TxnWithdrawal, TxnReturn, TxnProfit:
		return true
	}
	return false
}

// InvestorTransaction is one append-only ledger entry for an investor.
type InvestorTransaction struct {
	TransactionID string                  `json:"transactionID"` // Primary Key (UUID)
	InvestorID    string                  `json:"investorID"`    // FK -> investors.investor_id (Not Null)
	Type          InvestorTransactionType `json:"type"`
	Amount        decimal.Decimal         `json:"amount"`
	Date          time.Time               `json:"date"`
	CreatedBy     string                  `json:"createdBy"`
}

// daysPerQuarter is the fixed quarter length used for profit compounding.
const daysPerQuarter = 90

var quarterlyProfitRate = decimal.RequireFromString("0.04")

// Investor holds an investor's identity and running investment position.
// FundsAvailable is authoritative and must always equal the cumulative effect
// of the transaction ledger applied in creation order.
type Investor struct {
	InvestorID             string                `json:"investorID"` // Primary Key (UUID)
	FirstName              string                `json:"firstName"`
	LastName               string                `json:"lastName"`
	PhoneNumber            string                `json:"phoneNumber"`
	Email                  string                `json:"email"`
	Region                 string                `json:"region"`
	Currency               Currency              `json:"currency"`
	InvestmentPeriodMonths int                   `json:"investmentPeriodMonths"` // Minimum 3 (one quarter)
	FundsAvailable         decimal.Decimal       `json:"fundsAvailable"`
	ProfitEarned           decimal.Decimal       `json:"profitEarned"`
	ProfitPaid             bool                  `json:"profitPaid"`
	ProfitPaidDate         *time.Time            `json:"profitPaidDate,omitempty"`
	LastProfitCalculation  *time.Time            `json:"lastProfitCalculation,omitempty"`
	Transactions           []InvestorTransaction `json:"transactions,omitempty"` // Creation order
	AuditFields
}

// FullName returns the investor's display name.
func (inv *Investor) FullName() string {
	return inv.FirstName + " " + inv.LastName
}

// TotalInvested is deposits plus top-ups minus withdrawals and return
// payments. Profit transactions are excluded from the invested base.
func (inv *Investor) TotalInvested() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range inv.Transactions {
		switch txn.Type {
		case TxnDeposit, TxnTopup:
			total = total.Add(txn.Amount)
		case TxnWithdrawal, TxnReturn:
			total = total.Sub(txn.Amount)
		}
	}
	return total
}

// QuartersElapsed is floor(days / 90) since the last profit calculation, or
// since the investment start when no profit has been calculated yet.
func (inv *Investor) QuartersElapsed(asOf time.Time) int {
	reference := inv.CreatedAt
	if inv.LastProfitCalculation != nil {
		reference = *inv.LastProfitCalculation
	}
	days := int(asOf.Sub(reference).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / daysPerQuarter
}

// ProfitAccrual is the result of a quarterly profit calculation: the ledger
// entry and the field updates that must be persisted as one atomic pair.
type ProfitAccrual struct {
	Quarters         int
	ProfitPerQuarter decimal.Decimal
	TotalProfit      decimal.Decimal
	Transaction      InvestorTransaction
}

// AccrueQuarterlyProfit applies 4% per elapsed quarter on the net invested
// amount. It returns nil with no side effects when nothing has accrued
// (non-positive invested base, or fewer than 90 days since the checkpoint),
// which makes re-running within the same window a no-op.
//
// On accrual it mutates the in-memory investor (funds, earned profit,
// checkpoint, paid flags) and appends the profit transaction; the caller is
// responsible for persisting investor and transaction atomically.
func (inv *Investor) AccrueQuarterlyProfit(asOf time.Time, transactionID, actorID string) *ProfitAccrual {
	totalInvested := inv.TotalInvested()
	if totalInvested.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	quarters := inv.QuartersElapsed(asOf)
	if quarters < 1 {
		return nil
	}

	profitPerQuarter := totalInvested.Mul(quarterlyProfitRate)
	totalProfit := profitPerQuarter.Mul(decimal.NewFromInt(int64(quarters)))
	if !totalProfit.IsPositive() {
		return nil
	}

	txn := InvestorTransaction{
		TransactionID: transactionID,
		InvestorID:    inv.InvestorID,
		Type:          TxnProfit,
		Amount:        totalProfit,
		Date:          asOf,
		CreatedBy:     actorID,
	}

	inv.ProfitEarned = inv.ProfitEarned.Add(totalProfit)
	inv.FundsAvailable = inv.FundsAvailable.Add(totalProfit)
	checkpoint := asOf
	inv.LastProfitCalculation = &checkpoint
	// Newly accrued profit is always unpaid.
	inv.ProfitPaid = false
	inv.ProfitPaidDate = nil
	inv.Transactions = append(inv.Transactions, txn)

	return &ProfitAccrual{
		Quarters:         quarters,
		ProfitPerQuarter: profitPerQuarter,
		TotalProfit:      totalProfit,
		Transaction:      txn,
	}
}

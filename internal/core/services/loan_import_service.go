package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portsrepo "github.com/comloan/loan_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/comloan/loan_mgmt_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// loanImportColumns is the import/export header. Export appends the computed
// columns after these.
var loanImportColumns = []string{
	"first_name", "last_name", "email", "borrower_phone", "product_name",
	"currency", "principal", "interest_rate", "start_date", "term_months",
	"is_rollover", "rollover_count", "description",
}

var importDateFormats = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// loanImportService handles bulk CSV loan import and export with
// partial-success semantics: each bad row is reported and skipped, the rest
// proceed.
type loanImportService struct {
	loanRepo    portsrepo.LoanRepositoryWithTx
	borrowerSvc portssvc.BorrowerReaderSvc
	clock       portssvc.Clock
}

// NewLoanImportService creates a new bulk import service.
func NewLoanImportService(loanRepo portsrepo.LoanRepositoryWithTx, borrowerSvc portssvc.BorrowerReaderSvc, clock portssvc.Clock) portssvc.LoanImportSvc {
	return &loanImportService{
		loanRepo:    loanRepo,
		borrowerSvc: borrowerSvc,
		clock:       clock,
	}
}

var _ portssvc.LoanImportSvc = (*loanImportService)(nil)

// ImportLoansCSV reads loan rows from r, resolving borrowers by phone first
// and then by name, creating new loans or updating existing ones matched by
// (borrower, start date, principal).
func (s *loanImportService) ImportLoansCSV(ctx context.Context, r io.Reader, actorUserID string) (*dto.LoanImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV header: %v", apperrors.ErrValidation, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	report := &dto.LoanImportReport{}
	// Header is row 1; data starts at row 2.
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, dto.LoanImportRowError{Row: rowNum, Error: err.Error()})
			continue
		}

		created, err := s.importRow(ctx, col, record, actorUserID)
		if err != nil {
			report.Errors = append(report.Errors, dto.LoanImportRowError{Row: rowNum, Error: err.Error()})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}
	return report, nil
}

func (s *loanImportService) importRow(ctx context.Context, col map[string]int, record []string, actorUserID string) (created bool, err error) {
	field := func(name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	borrower, err := s.borrowerSvc.ResolveBorrower(ctx,
		field("borrower_phone"), field("first_name"), field("last_name"), field("email"))
	if err != nil {
		return false, err
	}

	principalStr := strings.ReplaceAll(field("principal"), ",", "")
	if principalStr == "" {
		return false, fmt.Errorf("missing principal")
	}
	principal, err := decimal.NewFromString(principalStr)
	if err != nil {
		return false, fmt.Errorf("invalid principal %q", field("principal"))
	}
	if principal.IsNegative() {
		return false, fmt.Errorf("principal cannot be negative")
	}

	startDateStr := field("start_date")
	if startDateStr == "" {
		return false, fmt.Errorf("missing start_date")
	}
	startDate, err := parseImportDate(startDateStr)
	if err != nil {
		return false, err
	}

	currency := domain.Currency(strings.ToUpper(field("currency")))
	if currency == "" {
		currency = domain.CurrencyGHS
	}
	if !currency.IsValid() {
		return false, fmt.Errorf("unsupported currency %q", currency)
	}

	var interestRate *decimal.Decimal
	if v := field("interest_rate"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return false, fmt.Errorf("invalid interest_rate %q", v)
		}
		interestRate = &rate
	}

	termMonths := 3
	if v := field("term_months"); v != "" {
		termMonths, err = strconv.Atoi(v)
		if err != nil || termMonths < 1 {
			return false, fmt.Errorf("invalid term_months %q", v)
		}
	}

	isRollover := isTruthy(field("is_rollover"))
	rolloverCount := 0
	if v := field("rollover_count"); v != "" {
		rolloverCount, err = strconv.Atoi(v)
		if err != nil || rolloverCount < 0 {
			return false, fmt.Errorf("invalid rollover_count %q", v)
		}
	}

	product := field("product_name")
	if product == "" {
		product = defaultProductName
	}
	description := field("description")

	now := s.clock.Now()
	existing, err := s.loanRepo.FindLoanByNaturalKey(ctx, borrower.BorrowerID, startDate, principal)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return false, fmt.Errorf("lookup failed: %v", err)
		}
		existing = nil
	}

	if existing == nil {
		rate := currency.DefaultMonthlyRate()
		if interestRate != nil {
			rate = *interestRate
		}
		loan := domain.Loan{
			LoanID:             uuid.NewString(),
			BorrowerID:         borrower.BorrowerID,
			ProductName:        product,
			Currency:           currency,
			Principal:          principal,
			InterestRate:       rate,
			StartDate:          startDate,
			TermMonths:         termMonths,
			OriginalTermMonths: termMonths,
			RolloverCount:      rolloverCount,
			IsRollover:         isRollover,
			Description:        description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}
		loan.UpdateStatus(now)
		if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
			return false, fmt.Errorf("save failed: %v", err)
		}
		return true, nil
	}

	changed := false
	if existing.ProductName != product {
		existing.ProductName = product
		changed = true
	}
	if existing.Currency != currency {
		existing.Currency = currency
		changed = true
	}
	if interestRate != nil && !existing.InterestRate.Equal(*interestRate) {
		existing.InterestRate = *interestRate
		changed = true
	}
	if existing.TermMonths != termMonths {
		existing.TermMonths = termMonths
		changed = true
	}
	if existing.IsRollover != isRollover {
		existing.IsRollover = isRollover
		changed = true
	}
	if existing.RolloverCount != rolloverCount {
		existing.RolloverCount = rolloverCount
		changed = true
	}
	if description != "" && existing.Description != description {
		existing.Description = description
		changed = true
	}
	if !changed {
		return false, fmt.Errorf("row matches an existing loan with no changes")
	}

	readAt := existing.LastUpdatedAt
	existing.UpdateStatus(now)
	existing.LastUpdatedAt = now
	existing.LastUpdatedBy = actorUserID
	if err := s.loanRepo.UpdateLoan(ctx, *existing, readAt); err != nil {
		return false, fmt.Errorf("update failed: %v", err)
	}
	return false, nil
}

// ExportLoansCSV writes every loan plus its computed accrual fields.
func (s *loanImportService) ExportLoansCSV(ctx context.Context, w io.Writer) error {
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list loans for export: %w", err)
	}

	writer := csv.NewWriter(w)
	header := append(append([]string{"loan_id"}, loanImportColumns[4:]...),
		"status", "due_date", "total_to_pay", "total_paid", "remaining_to_pay")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range loans {
		loan := &loans[i]
		row := []string{
			loan.LoanID,
			loan.ProductName,
			string(loan.Currency),
			utils.FormatWithPrecision(loan.Principal, 2),
			loan.InterestRate.String(),
			loan.StartDate.Format("2006-01-02"),
			strconv.Itoa(loan.TermMonths),
			boolToFlag(loan.IsRollover),
			strconv.Itoa(loan.RolloverCount),
			loan.Description,
			string(loan.Status),
			loan.DueDate().Format("2006-01-02"),
			utils.FormatWithPrecision(loan.TotalToPay(), 2),
			utils.FormatWithPrecision(loan.TotalPaid(), 2),
			utils.FormatWithPrecision(loan.RemainingToPay(), 2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLoanTemplateCSV writes just the import header row.
func (s *loanImportService) WriteLoanTemplateCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(loanImportColumns); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func parseImportDate(value string) (time.Time, error) {
	for _, layout := range importDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start_date %q", value)
}

func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

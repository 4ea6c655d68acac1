package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
	"github.com/bizbooks/ledger_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// reportingService implements the financial report queries.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	partyRepo     portsrepo.PartyReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, partyRepo portsrepo.PartyReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		partyRepo:     partyRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// isDebitNormal reports whether balances of this account type belong in
// the debit column.
func isDebitNormal(t domain.AccountType) bool {
	return t == domain.Asset || t == domain.Expense
}

// TrialBalance implements portssvc.ReportingSvcFacade.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.reportingRepo.GetAccountBalances(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to fetch account balances for trial balance", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch account balances: %w", err)
	}

	report := &domain.TrialBalanceReport{
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
	}
	for _, acc := range accounts {
		row := domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
		}
		// The balance is signed relative to the account's normal side; a
		// negative balance flips the account into the opposite column.
		switch {
		case isDebitNormal(acc.AccountType) && !acc.Balance.IsNegative():
			row.Debit = acc.Balance
		case isDebitNormal(acc.AccountType):
			row.Credit = acc.Balance.Neg()
		case !acc.Balance.IsNegative():
			row.Credit = acc.Balance
		default:
			row.Debit = acc.Balance.Neg()
		}
		report.DebitTotal = report.DebitTotal.Add(row.Debit)
		report.CreditTotal = report.CreditTotal.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}
	report.Balanced = report.DebitTotal.Equal(report.CreditTotal)

	if !report.Balanced {
		logger.Warn("Trial balance does not balance",
			slog.String("debit_total", report.DebitTotal.String()),
			slog.String("credit_total", report.CreditTotal.String()),
			slog.String("tenant_id", tenantID))
	}
	return report, nil
}

// BalanceSheet implements portssvc.ReportingSvcFacade.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
	}
	for _, a := range assets {
		report.TotalAssets = report.TotalAssets.Add(a.NetAmount)
	}
	for _, l := range liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(l.NetAmount)
	}
	for _, e := range equity {
		report.TotalEquity = report.TotalEquity.Add(e.NetAmount)
	}
	return report, nil
}

// IncomeStatement implements portssvc.ReportingSvcFacade.
func (s *reportingService) IncomeStatement(ctx context.Context, tenantID string, from, to time.Time) (*domain.IncomeStatementReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", apperrors.ErrValidation)
	}

	revenue, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income statement data: %w", err)
	}

	report := &domain.IncomeStatementReport{
		From:     from,
		To:       to,
		Revenue:  revenue,
		Expenses: expenses,
	}
	totalRevenue := decimal.Zero
	for _, r := range revenue {
		totalRevenue = totalRevenue.Add(r.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}
	report.NetProfit = totalRevenue.Sub(totalExpenses)
	return report, nil
}

// CustomerStatement implements portssvc.ReportingSvcFacade.
func (s *reportingService) CustomerStatement(ctx context.Context, tenantID string, customerID string) (*domain.StatementReport, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	code := fmt.Sprintf("%s-C%s", CodeReceivable, customerID)
	// Receivables are debit-normal: invoices raise the balance, receipts
	// and returns lower it.
	return s.buildStatement(ctx, tenantID, code, customerID, customer.Name, customer.OpeningBalance, true)
}

// SupplierStatement implements portssvc.ReportingSvcFacade.
func (s *reportingService) SupplierStatement(ctx context.Context, tenantID string, supplierID string) (*domain.StatementReport, error) {
	supplier, err := s.partyRepo.FindSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier %s: %w", supplierID, err)
	}
	code := fmt.Sprintf("%s-S%s", CodePayable, supplierID)
	// Payables accumulate on the credit side, so the running balance
	// direction is flipped relative to customers.
	return s.buildStatement(ctx, tenantID, code, supplierID, supplier.Name, supplier.OpeningBalance, false)
}

func (s *reportingService) buildStatement(ctx context.Context, tenantID string, accountCode string, partyID string, partyName string, openingBalance decimal.Decimal, debitNormal bool) (*domain.StatementReport, error) {
	report := &domain.StatementReport{
		PartyID:        partyID,
		PartyName:      partyName,
		OpeningBalance: openingBalance,
		ClosingBalance: openingBalance,
		Lines:          []domain.StatementLine{},
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, accountCode)
	if err != nil {
		// No subaccount means no ledger activity yet; the statement is just
		// the opening balance.
		if errors.Is(err, apperrors.ErrNotFound) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to find statement account %s: %w", accountCode, err)
	}

	lines, err := s.reportingRepo.GetStatementLines(ctx, tenantID, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statement lines: %w", err)
	}

	running := openingBalance
	for i := range lines {
		if debitNormal {
			running = running.Add(lines[i].Debit).Sub(lines[i].Credit)
		} else {
			running = running.Add(lines[i].Credit).Sub(lines[i].Debit)
		}
		lines[i].RunningBalance = running
	}
	report.ClosingBalance = running

	// Newest first for display; running balances stay chronological.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	report.Lines = lines
	return report, nil
}

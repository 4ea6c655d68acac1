package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetAccountBalances retrieves every active account with its cached
// balance for trial balance classification.
func (r *reportingRepository) GetAccountBalances(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, code, name, account_type, balance
		FROM accounts
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error querying account balances: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		var accountType string
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &accountType, &a.Balance); err != nil {
			return nil, fmt.Errorf("error scanning account balance row: %w", err)
		}
		a.AccountType = domain.AccountType(accountType)
		a.TenantID = tenantID
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balance rows: %w", err)
	}
	return accounts, nil
}

// netByTypeQuery aggregates per-account net amounts from posted lines for
// a set of account types. The net direction follows each type's normal
// side, so revenue nets credit-minus-debit while expenses net the reverse.
const netByTypeQuery = `
	SELECT
		a.account_type,
		a.account_id,
		a.code,
		a.name,
		SUM(CASE
			WHEN a.account_type IN ('ASSET', 'EXPENSE')
				THEN CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE -l.amount END
			ELSE CASE WHEN l.side = 'CREDIT' THEN l.amount ELSE -l.amount END
		END) AS net
	FROM journal_lines l
	JOIN accounts a ON l.account_id = a.account_id
	JOIN journal_entries e ON l.entry_id = e.entry_id
	WHERE e.tenant_id = $1
		AND e.status = 'POSTED'
		AND e.original_entry_id IS NULL
		AND a.account_type = ANY($2)
`

// GetIncomeStatementData retrieves net revenue and expense amounts per
// account for entries dated within [from, to], reversals excluded.
func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := netByTypeQuery + `
		AND e.entry_date BETWEEN $3 AND $4
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, []string{"REVENUE", "EXPENSE"}, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying income statement data: %w", err)
	}
	defer rows.Close()

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		if err := rows.Scan(&accountType, &amount.AccountID, &amount.AccountCode, &amount.Name, &amount.NetAmount); err != nil {
			return nil, nil, fmt.Errorf("error scanning income statement row: %w", err)
		}
		if accountType == string(domain.Revenue) {
			revenue = append(revenue, amount)
		} else {
			expenses = append(expenses, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income statement rows: %w", err)
	}
	return revenue, expenses, nil
}

// GetBalanceSheetData retrieves net asset, liability and equity amounts
// per account for entries dated up to asOf, reversals excluded.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := netByTypeQuery + `
		AND e.entry_date <= $3
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, []string{"ASSET", "LIABILITY", "EQUITY"}, asOf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		if err := rows.Scan(&accountType, &amount.AccountID, &amount.AccountCode, &amount.Name, &amount.NetAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}
		switch domain.AccountType(accountType) {
		case domain.Asset:
			assets = append(assets, amount)
		case domain.Liability:
			liabilities = append(liabilities, amount)
		default:
			equity = append(equity, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}
	return assets, liabilities, equity, nil
}

// GetStatementLines retrieves all posted lines touching an account in
// chronological order with the owning entry's details, for statement
// assembly. Reversal pairs are included so statements show corrections.
func (r *reportingRepository) GetStatementLines(ctx context.Context, tenantID string, accountID string) ([]domain.StatementLine, error) {
	query := `
		SELECT e.entry_date, e.entry_number, e.entry_type, e.description,
		       CASE WHEN l.side = 'DEBIT' THEN l.amount ELSE 0 END AS debit,
		       CASE WHEN l.side = 'CREDIT' THEN l.amount ELSE 0 END AS credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND l.account_id = $2
		ORDER BY e.entry_date, l.created_at, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("error querying statement lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.StatementLine{}
	for rows.Next() {
		var line domain.StatementLine
		var entryType string
		var debit, credit decimal.Decimal
		if err := rows.Scan(&line.EntryDate, &line.EntryNumber, &entryType, &line.Description, &debit, &credit); err != nil {
			return nil, fmt.Errorf("error scanning statement line: %w", err)
		}
		line.EntryType = domain.EntryType(entryType)
		line.Debit = debit
		line.Credit = credit
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement lines: %w", err)
	}
	return lines, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bizbooks/ledger_backend/internal/apperrors"
	"github.com/bizbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/bizbooks/ledger_backend/internal/models"
	"github.com/bizbooks/ledger_backend/internal/utils/accounting"
	"github.com/bizbooks/ledger_backend/internal/utils/mapping"
	"github.com/bizbooks/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, tenant_id, entry_number, entry_type, entry_date, description, reference_type, reference_id, total_amount, status, original_entry_id, reversing_entry_id, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	stockRepo   portsrepo.StockRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, stockRepo portsrepo.StockRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		stockRepo:      stockRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SavePostedEntries persists a batch of balanced entries as one database
// transaction: the idempotency marker, stock movements and product
// updates, entry numbers, entry and line rows, and account balance
// updates. Lock order is fixed, products first then accounts, both in
// ascending primary-key order.
func (r *PgxJournalRepository) SavePostedEntries(ctx context.Context, tenantID string, entries []domain.JournalEntry, deltas map[string]portsrepo.AccountDelta, ref *domain.PostingReference, stockChanges []portsrepo.StockChange) ([]domain.JournalEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to save", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	now := entries[0].CreatedAt
	userID := entries[0].CreatedBy

	// 1. Claim the source reference before touching anything else. A
	// concurrent or repeated confirm of the same document fails right here
	// on the unique marker and leaves no other work to roll back.
	if ref != nil {
		markerQuery := `
			INSERT INTO posting_markers (tenant_id, reference_type, reference_id, entry_id, created_at)
			VALUES ($1, $2, $3, $4, $5);
		`
		if _, err := tx.Exec(ctx, markerQuery, tenantID, ref.Type, ref.ID, entries[0].EntryID, now); err != nil {
			if isUniqueViolation(err, "") {
				return nil, fmt.Errorf("%w: %s %s", apperrors.ErrAlreadyProcessed, ref.Type, ref.ID)
			}
			return nil, apperrors.NewAppError(500, "failed to insert posting marker", err)
		}
	}

	// 2. Lock product rows and apply stock effects.
	if len(stockChanges) > 0 {
		productIDs := make([]string, 0, len(stockChanges))
		for _, change := range stockChanges {
			productIDs = append(productIDs, change.Movement.ProductID)
		}
		sort.Strings(productIDs)
		if _, err := r.stockRepo.FindProductsByIDsForUpdate(ctx, tx, tenantID, productIDs); err != nil {
			if isConcurrencyError(err) {
				return nil, fmt.Errorf("%w: locking products: %v", apperrors.ErrConcurrency, err)
			}
			return nil, err
		}
		if err := r.stockRepo.ApplyStockChangesInTx(ctx, tx, tenantID, stockChanges, userID); err != nil {
			return nil, err
		}
	}

	// 3. Lock the affected accounts.
	accountIDs := make([]string, 0, len(deltas))
	for accID := range deltas {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	// 4. Allocate entry numbers from the per-day sequence counters.
	for i := range entries {
		number, err := r.nextEntryNumber(ctx, tx, tenantID, entries[i].EntryType, entries[i].EntryDate)
		if err != nil {
			return nil, err
		}
		entries[i].EntryNumber = number
	}

	// 5. Insert entry rows.
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	for i := range entries {
		m := mapping.ToModelJournalEntry(entries[i])
		_, err := tx.Exec(ctx, entryQuery,
			m.EntryID,
			m.TenantID,
			m.EntryNumber,
			m.EntryType,
			m.EntryDate,
			m.Description,
			m.ReferenceType,
			m.ReferenceID,
			m.TotalAmount,
			m.Status,
			m.OriginalEntryID,
			m.ReversingEntryID,
			m.PostedAt,
			m.PostedBy,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
		}
	}

	// 6. Insert line rows with running balances computed from the locked
	// pre-posting balances, in entry order.
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, side, amount, notes, running_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	currentRunningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance
	}

	batch := &pgx.Batch{}
	for i := range entries {
		for j := range entries[i].Lines {
			line := &entries[i].Lines[j]
			lockedAccount, ok := lockedAccounts[line.AccountID]
			if !ok {
				return nil, apperrors.NewAppError(500, "internal error: locked account "+line.AccountID+" not found during line processing", nil)
			}

			signedAmount, err := accounting.CalculateSignedAmount(*line, lockedAccount.AccountType)
			if err != nil {
				return nil, apperrors.NewAppError(500, "failed to calculate signed amount for line "+line.LineID, err)
			}
			newRunningBalance := currentRunningBalances[line.AccountID].Add(signedAmount)
			line.RunningBalance = newRunningBalance
			currentRunningBalances[line.AccountID] = newRunningBalance

			m := mapping.ToModelJournalLine(*line)
			batch.Queue(lineQuery,
				m.LineID,
				m.EntryID,
				m.AccountID,
				m.Side,
				m.Amount,
				m.Notes,
				m.RunningBalance,
				m.CreatedAt,
				m.CreatedBy,
				m.LastUpdatedAt,
				m.LastUpdatedBy,
			)
		}
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to execute line batch", err)
	}

	// 7. Apply the account deltas.
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, userID, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isConcurrencyError(err) {
			return nil, fmt.Errorf("%w: committing posting: %v", apperrors.ErrConcurrency, err)
		}
		return nil, err
	}
	return entries, nil
}

// nextEntryNumber allocates the next sequential number for (tenant,
// prefix, day) inside the posting transaction. The upsert keeps the
// counter row locked until commit, so numbers are gapless per committed
// posting and never reused.
func (r *PgxJournalRepository) nextEntryNumber(ctx context.Context, tx pgx.Tx, tenantID string, entryType domain.EntryType, entryDate time.Time) (string, error) {
	prefix := entryType.NumberPrefix()
	day := entryDate.UTC().Format("20060102")

	query := `
		INSERT INTO entry_sequences (tenant_id, prefix, day, next_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (tenant_id, prefix, day)
		DO UPDATE SET next_value = entry_sequences.next_value + 1
		RETURNING next_value;
	`
	var n int64
	if err := tx.QueryRow(ctx, query, tenantID, prefix, day).Scan(&n); err != nil {
		if isConcurrencyError(err) {
			return "", fmt.Errorf("%w: allocating entry number: %v", apperrors.ErrConcurrency, err)
		}
		return "", apperrors.NewAppError(500, "failed to allocate entry number for prefix "+prefix, err)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, n), nil
}

// scanEntry scans one entry row from the entryColumns column list.
func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryType,
		&m.EntryDate,
		&m.Description,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.TotalAmount,
		&m.Status,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves an entry by its ID within a tenant.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1 AND tenant_id = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

// ListEntriesByTenant retrieves a paginated list of entries using
// token-based pagination over (entry_date, created_at) descending.
func (r *PgxJournalRepository) ListEntriesByTenant(ctx context.Context, tenantID string, params portsrepo.EntryListParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
	`
	filterClause := `WHERE tenant_id = $1`
	if !params.IncludeReversals {
		filterClause += ` AND status != 'REVERSED' AND original_entry_id IS NULL`
	}
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if params.NextToken != nil && *params.NextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*params.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for tenant "+tenantID, scanErr)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		newToken := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &newToken
		results = modelEntries[:limit]
	}

	domainEntries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		domainEntries[i] = mapping.ToDomainJournalEntry(m)
	}
	return domainEntries, nextTokenVal, nil
}

// IsSourceProcessed reports whether a posting marker exists for the
// given source reference.
func (r *PgxJournalRepository) IsSourceProcessed(ctx context.Context, tenantID string, ref domain.PostingReference) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posting_markers
			WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, tenantID, ref.Type, ref.ID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check posting marker for "+ref.Type+" "+ref.ID, err)
	}
	return exists, nil
}

// UpdateEntryStatusAndLinks updates the status and reversal linkage of an entry.
func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, tenantID string, entryID string, status domain.EntryStatus, reversingEntryID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    reversing_entry_id = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE entry_id = $1 AND tenant_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		entryID,
		tenantID,
		status,
		reversingEntryID,
		updatedAt,
		updatedByUserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry status/links for "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for update")
	}
	return nil
}

// FindLinesByEntryID retrieves all lines of a single entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, side, amount, notes, running_balance, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Side,
			&l.Amount,
			&l.Notes,
			&l.RunningBalance,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListLinesByAccountID retrieves a paginated, newest-first list of lines
// touching an account, each carrying its stored running balance plus the
// owning entry's headline details.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, tenantID string, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.side, l.amount, l.notes, l.running_balance,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       e.entry_date, e.entry_number, e.description
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.tenant_id = $2
	`
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID, tenantID}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (e.entry_date, l.created_at) < ($3, $4)`
		args = append(args, lastEntryDate, lastCreatedAt)
		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	modelLines := make([]models.JournalLine, 0, fetchLimit)
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Side,
			&l.Amount,
			&l.Notes,
			&l.RunningBalance,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
			&l.EntryDate,
			&l.EntryNumber,
			&l.EntryDescription,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		modelLines = append(modelLines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := modelLines
	if len(modelLines) > limit {
		lastLine := modelLines[limit-1]
		token := pagination.EncodeToken(lastLine.EntryDate, lastLine.CreatedAt)
		nextTokenVal = &token
		results = modelLines[:limit]
	}

	return mapping.ToDomainJournalLineSlice(results), nextTokenVal, nil
}

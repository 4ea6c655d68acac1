package pgsql

import (
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories over one pool.
// allowNegativeStock is the tenant-wide override for the negative stock
// guard on postings.
func NewRepositoryProvider(dbPool *pgxpool.Pool, allowNegativeStock bool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	stockRepo := newPgxStockRepository(dbPool, allowNegativeStock)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, stockRepo)
	partyRepo := newPgxPartyRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		StockRepo:     stockRepo,
		PartyRepo:     partyRepo,
		ReportingRepo: reportingRepo,
	}
}

package services

import (
	portsrepo "github.com/bizbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Registry and ledger first since the adapters depend on them
	container.Registry = NewRegistryService(repos.AccountRepo, repos.PartyRepo)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo)

	container.Inventory = NewInventoryService(repos.StockRepo, container.Ledger, container.Registry)
	container.Posting = NewPostingService(container.Ledger, container.Registry, container.Inventory, repos.JournalRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.PartyRepo)

	return container
}

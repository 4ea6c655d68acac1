package services

// ServiceContainer holds all service facades for handler wiring.
type ServiceContainer struct {
	Registry  RegistrySvcFacade
	Ledger    LedgerSvcFacade
	Posting   PostingSvcFacade
	Inventory InventorySvcFacade
	Reporting ReportingSvcFacade
}

package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	opts := []Option{WithPublisher(repos.Publisher)}

	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo, repos.LedgerRepo, cfg.ReportCurrency, opts...),
		Journal:   NewJournalService(repos, opts...),
		Ledger:    NewLedgerService(repos, opts...),
		Reporting: NewReportingService(repos, cfg.ReportCurrency, opts...),
		Bank:      NewBankService(repos, cfg.ConflictRetryAttempts, cfg.ReportCurrency, opts...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
	_ portssvc.BankSvcFacade    = (*bankService)(nil)
)

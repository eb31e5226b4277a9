package repositories

// LedgerStore combines every repository of the ledger.
type LedgerStore interface {
	AccountRepositoryFacade
	ThirdPartyRepositoryFacade
	AnalyticRepository
	JournalRepository
	FiscalYearRepositoryFacade
	EntryRepositoryFacade
	TransactionRepositoryFacade
	LetterRepository
	BankStatementRepository
	AuditRepository
}

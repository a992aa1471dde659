package repositories

// RepositoryProvider holds instances of all repository implementations,
// wired once at startup and handed to the service container.
type RepositoryProvider struct {
	LoanRepo         LoanRepositoryWithTx
	InvestorRepo     InvestorRepositoryWithTx
	BorrowerRepo     BorrowerRepositoryFacade
	ExchangeRateRepo ExchangeRateRepository
}

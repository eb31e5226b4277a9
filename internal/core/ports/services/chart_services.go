package services

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
)

// AccountReaderSvc defines read operations on the chart of accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations on the chart of accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID int64, actor string) error
}

// ThirdPartySvc manages third parties.
type ThirdPartySvc interface {
	CreateThirdParty(ctx context.Context, req dto.CreateThirdPartyRequest, actor string) (*domain.ThirdParty, error)
	GetThirdPartyByID(ctx context.Context, thirdPartyID int64) (*domain.ThirdParty, error)
	ListThirdParties(ctx context.Context) ([]domain.ThirdParty, error)
	DeleteThirdParty(ctx context.Context, thirdPartyID int64, actor string) error
}

// ReferenceDataSvc manages analytic dimensions and journals.
type ReferenceDataSvc interface {
	CreateAnalytic(ctx context.Context, req dto.CreateAnalyticRequest, actor string) (*domain.Analytic, error)
	ListAnalytics(ctx context.Context) ([]domain.Analytic, error)
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, actor string) (*domain.Journal, error)
	ListJournals(ctx context.Context) ([]domain.Journal, error)
}

// ChartSvcFacade combines the reference data services.
type ChartSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	ThirdPartySvc
	ReferenceDataSvc
}

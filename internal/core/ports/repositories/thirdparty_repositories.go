package repositories

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// ThirdPartyReader defines read operations for third parties.
type ThirdPartyReader interface {
	FindThirdPartyByID(ctx context.Context, thirdPartyID int64) (*domain.ThirdParty, error)
	FindThirdPartyByCode(ctx context.Context, code string) (*domain.ThirdParty, error)
	FindThirdPartiesByIDs(ctx context.Context, ids []int64) (map[int64]domain.ThirdParty, error)
	ListThirdParties(ctx context.Context) ([]domain.ThirdParty, error)

	// CountThirdPartyReferences counts transactions pointing at the third party.
	CountThirdPartyReferences(ctx context.Context, thirdPartyID int64) (int, error)
}

// ThirdPartyWriter defines write operations for third parties.
type ThirdPartyWriter interface {
	SaveThirdParty(ctx context.Context, tp *domain.ThirdParty) error
	DeleteThirdParty(ctx context.Context, thirdPartyID int64) error
}

// ThirdPartyRepositoryFacade combines the third party interfaces.
type ThirdPartyRepositoryFacade interface {
	ThirdPartyReader
	ThirdPartyWriter
}

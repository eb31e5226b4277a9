package repositories

import (
	"context"

	"github.com/SscSPs/association_ledger/internal/core/domain"
)

// LetterRepository stores lettering clusters.
type LetterRepository interface {
	SaveLetter(ctx context.Context, letter *domain.Letter) error
	FindLetterByID(ctx context.Context, letterID int64) (*domain.Letter, error)
	DeleteLetter(ctx context.Context, letterID int64) error
}

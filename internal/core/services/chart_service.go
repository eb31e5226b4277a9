package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/dto"
)

// chartService manages the reference data of the ledger.
type chartService struct {
	BaseService
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if err := domain.ValidateAccountCode(code); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: account title is required", apperrors.ErrValidation)
	}

	account := domain.Account{
		Code:        code,
		Title:       strings.TrimSpace(req.Title),
		AuditFields: domain.NewAuditFields(actor, s.now()),
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		if err := store.SaveAccount(ctx, &account); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityAccount, account.AccountID, domain.AuditCreate, actor)
		ev.Track("code", "", account.Code)
		ev.Track("title", "", account.Title)
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.Int64("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

func (s *chartService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.repo.FindAccountByID(ctx, accountID)
}

func (s *chartService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.repo.FindAccountByCode(ctx, code)
}

func (s *chartService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// DeleteAccount removes an account nothing refers to.
func (s *chartService) DeleteAccount(ctx context.Context, accountID int64, actor string) error {
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		account, err := store.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		refs, err := store.CountAccountReferences(ctx, accountID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: account %s is referenced %d times", apperrors.ErrReferentialIntegrity, account.Code, refs)
		}
		if err := store.DeleteAccount(ctx, accountID); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityAccount, accountID, domain.AuditDelete, actor)
		ev.Track("code", account.Code, "")
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrReferentialIntegrity) {
			s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.Int64("account_id", accountID))
	return nil
}

func (s *chartService) CreateThirdParty(ctx context.Context, req dto.CreateThirdPartyRequest, actor string) (*domain.ThirdParty, error) {
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: third party code and title are required", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown third party type %q", apperrors.ErrValidation, req.Type)
	}

	tp := domain.ThirdParty{
		Code:        strings.TrimSpace(req.Code),
		Title:       strings.TrimSpace(req.Title),
		IBAN:        strings.ReplaceAll(strings.ToUpper(req.IBAN), " ", ""),
		BIC:         strings.ToUpper(strings.TrimSpace(req.BIC)),
		Type:        req.Type,
		AuditFields: domain.NewAuditFields(actor, s.now()),
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		account, err := store.FindAccountByCode(ctx, req.AccountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: default account %s does not exist", apperrors.ErrValidation, req.AccountCode)
			}
			return err
		}
		tp.AccountID = account.AccountID
		if err := store.SaveThirdParty(ctx, &tp); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityThirdParty, tp.ThirdPartyID, domain.AuditCreate, actor)
		ev.Track("code", "", tp.Code)
		ev.Track("account", "", account.Code)
		ev.Track("iban", "", tp.IBAN)
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create third party", slog.String("code", req.Code))
		return nil, err
	}
	s.LogInfo(ctx, "Third party created", slog.Int64("third_party_id", tp.ThirdPartyID))
	return &tp, nil
}

func (s *chartService) GetThirdPartyByID(ctx context.Context, thirdPartyID int64) (*domain.ThirdParty, error) {
	return s.repo.FindThirdPartyByID(ctx, thirdPartyID)
}

func (s *chartService) ListThirdParties(ctx context.Context) ([]domain.ThirdParty, error) {
	return s.repo.ListThirdParties(ctx)
}

func (s *chartService) DeleteThirdParty(ctx context.Context, thirdPartyID int64, actor string) error {
	return s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		tp, err := store.FindThirdPartyByID(ctx, thirdPartyID)
		if err != nil {
			return err
		}
		refs, err := store.CountThirdPartyReferences(ctx, thirdPartyID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: third party %s is referenced by %d transactions", apperrors.ErrReferentialIntegrity, tp.Code, refs)
		}
		if err := store.DeleteThirdParty(ctx, thirdPartyID); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityThirdParty, thirdPartyID, domain.AuditDelete, actor)
		ev.Track("code", tp.Code, "")
		return s.audit(ctx, store, ev)
	})
}

func (s *chartService) CreateAnalytic(ctx context.Context, req dto.CreateAnalyticRequest, actor string) (*domain.Analytic, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: analytic code is required", apperrors.ErrValidation)
	}
	analytic := domain.Analytic{Code: strings.TrimSpace(req.Code), Title: strings.TrimSpace(req.Title)}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		if err := store.SaveAnalytic(ctx, &analytic); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityAnalytic, analytic.AnalyticID, domain.AuditCreate, actor)
		ev.Track("code", "", analytic.Code)
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		return nil, err
	}
	return &analytic, nil
}

func (s *chartService) ListAnalytics(ctx context.Context) ([]domain.Analytic, error) {
	return s.repo.ListAnalytics(ctx)
}

func (s *chartService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: journal code is required", apperrors.ErrValidation)
	}
	journal := domain.Journal{Code: code, Title: strings.TrimSpace(req.Title)}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		if err := store.SaveJournal(ctx, &journal); err != nil {
			return err
		}
		ev := s.newEvent(domain.EntityJournal, journal.JournalID, domain.AuditCreate, actor)
		ev.Track("code", "", journal.Code)
		return s.audit(ctx, store, ev)
	})
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

func (s *chartService) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	return s.repo.ListJournals(ctx)
}

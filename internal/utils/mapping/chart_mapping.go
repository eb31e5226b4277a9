package mapping

import (
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        d.Code,
		Title:       d.Title,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Title:       m.Title,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelThirdParty converts a domain ThirdParty to a model ThirdParty
func ToModelThirdParty(d domain.ThirdParty) models.ThirdParty {
	return models.ThirdParty{
		ThirdPartyID: d.ThirdPartyID,
		Code:         d.Code,
		Title:        d.Title,
		AccountID:    d.AccountID,
		IBAN:         d.IBAN,
		BIC:          d.BIC,
		Type:         string(d.Type),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainThirdParty converts a model ThirdParty to a domain ThirdParty
func ToDomainThirdParty(m models.ThirdParty) domain.ThirdParty {
	return domain.ThirdParty{
		ThirdPartyID: m.ThirdPartyID,
		Code:         m.Code,
		Title:        m.Title,
		AccountID:    m.AccountID,
		IBAN:         m.IBAN,
		BIC:          m.BIC,
		Type:         domain.ThirdPartyType(m.Type),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainAnalytic(m models.Analytic) domain.Analytic {
	return domain.Analytic{AnalyticID: m.AnalyticID, Code: m.Code, Title: m.Title}
}

func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{JournalID: m.JournalID, Code: m.Code, Title: m.Title}
}

package mapping

import (
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to a model FiscalYear
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		Title:        d.Title,
		StartDate:    domain.DateOf(d.Start),
		EndDate:      domain.DateOf(d.End),
		Opened:       d.Opened,
		Closed:       d.Closed,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to a domain FiscalYear
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID: m.FiscalYearID,
		Title:        m.Title,
		Start:        domain.DateOf(m.StartDate),
		End:          domain.DateOf(m.EndDate),
		Opened:       m.Opened,
		Closed:       m.Closed,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:      d.EntryID,
		FiscalYearID: d.FiscalYearID,
		JournalID:    d.JournalID,
		Kind:         string(d.Kind),
		EntryDate:    domain.DateOf(d.Date),
		Title:        d.Title,
		DocumentURI:  d.DocumentURI,
		Exported:     d.Exported,
		Projected:    d.Projected,
		Number:       d.Number,
		Deadline:     optionalDate(d.Deadline),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:      m.EntryID,
		FiscalYearID: m.FiscalYearID,
		JournalID:    m.JournalID,
		Kind:         domain.EntryKind(m.Kind),
		Date:         domain.DateOf(m.EntryDate),
		Title:        m.Title,
		DocumentURI:  m.DocumentURI,
		Exported:     m.Exported,
		Projected:    m.Projected,
		Number:       m.Number,
		Deadline:     optionalDate(m.Deadline),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		ThirdPartyID:   d.ThirdPartyID,
		AnalyticID:     d.AnalyticID,
		Title:          d.Title,
		Expense:        d.Expense,
		Revenue:        d.Revenue,
		Reconciliation: optionalDate(d.Reconciliation),
		LetterID:       d.LetterID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		ThirdPartyID:   m.ThirdPartyID,
		AnalyticID:     m.AnalyticID,
		Title:          m.Title,
		Expense:        m.Expense,
		Revenue:        m.Revenue,
		Reconciliation: optionalDate(m.Reconciliation),
		LetterID:       m.LetterID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

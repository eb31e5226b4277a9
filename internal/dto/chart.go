package dto

import "github.com/SscSPs/association_ledger/internal/core/domain"

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code  string `json:"code" binding:"required,accountcode"`
	Title string `json:"title" binding:"required,max=255"`
}

// CreateThirdPartyRequest defines the data needed to create a third party.
type CreateThirdPartyRequest struct {
	Code        string                `json:"code" binding:"required,max=10"`
	Title       string                `json:"title" binding:"required,max=255"`
	AccountCode string                `json:"accountCode" binding:"required,accountcode"`
	Type        domain.ThirdPartyType `json:"type" binding:"required,oneof=CLIENT SUPPLIER EMPLOYEE OTHER"`
	IBAN        string                `json:"iban" binding:"omitempty,max=34"`
	BIC         string                `json:"bic" binding:"omitempty,max=11"`
}

// CreateAnalyticRequest defines the data needed to create an analytic dimension.
type CreateAnalyticRequest struct {
	Code  string `json:"code" binding:"required,max=10"`
	Title string `json:"title" binding:"required,max=255"`
}

// CreateJournalRequest defines the data needed to create a journal.
type CreateJournalRequest struct {
	Code  string `json:"code" binding:"required,max=2"`
	Title string `json:"title" binding:"required,max=255"`
}

// CreateFiscalYearRequest defines the data needed to open a fiscal year.
type CreateFiscalYearRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Start  Date   `json:"start"`
	End    Date   `json:"end"` // exclusive
	Opened bool   `json:"opened"`
}

// SetOpenedRequest toggles the opened flag of a fiscal year.
type SetOpenedRequest struct {
	Opened bool `json:"opened"`
}

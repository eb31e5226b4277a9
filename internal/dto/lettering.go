package dto

import (
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LetterRequest names the transactions to letter together.
type LetterRequest struct {
	TransactionIDs []int64 `json:"transactionIDs" binding:"required,min=2,dive,gt=0"`
}

// LetterResponse is a created letter with its display label.
type LetterResponse struct {
	domain.Letter
	Label string `json:"label"`
}

// ToLetterResponse converts a domain.Letter to LetterResponse DTO.
func ToLetterResponse(l *domain.Letter) LetterResponse {
	return LetterResponse{Letter: *l, Label: l.Label()}
}

// CreateBankStatementRequest declares a bank balance at a date.
type CreateBankStatementRequest struct {
	FiscalYearID int64           `json:"fiscalYearID" binding:"required"`
	Date         Date            `json:"date"`
	Number       int             `json:"number" binding:"min=0"`
	Balance      decimal.Decimal `json:"balance"`
	DocumentURI  string          `json:"documentURI" binding:"omitempty,max=1024"`
}

// SetReconciliationRequest tags (or untags, with a null date) bank transactions.
type SetReconciliationRequest struct {
	TransactionIDs []int64 `json:"transactionIDs" binding:"required,min=1,dive,gt=0"`
	Date           *Date   `json:"date"`
}

// CloseYearRequest names the year to close and the year receiving the carry-forward.
type CloseYearRequest struct {
	OldYearID int64 `json:"oldYearID" binding:"required"`
	NewYearID int64 `json:"newYearID" binding:"required"`
}

// MarkExportedRequest lists the entries pulled by the export pipeline.
type MarkExportedRequest struct {
	EntryIDs []int64 `json:"entryIDs" binding:"required,min=1,dive,gt=0"`
}

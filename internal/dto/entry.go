package dto

import (
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is the header of a posting event.
// FiscalYearID is resolved from the date when zero.
type CreateEntryRequest struct {
	FiscalYearID int64            `json:"fiscalYearID"`
	JournalCode  string           `json:"journalCode" binding:"required,max=2"`
	Kind         domain.EntryKind `json:"kind" binding:"omitempty,oneof=GENERIC PURCHASE SALE INCOME EXPENDITURE CASHING TRANSFER_ORDER"`
	Date         Date             `json:"date"`
	Title        string           `json:"title" binding:"required,max=255"`
	DocumentURI  string           `json:"documentURI" binding:"omitempty,max=1024"`
	Projected    bool             `json:"projected"`
	Number       string           `json:"number" binding:"omitempty,max=64"`
	Deadline     *Date            `json:"deadline"`
}

// TransactionLine is one debit/credit line of an entry.
type TransactionLine struct {
	AccountID    int64           `json:"accountID" binding:"required"`
	ThirdPartyID *int64          `json:"thirdPartyID"`
	AnalyticID   *int64          `json:"analyticID"`
	Title        string          `json:"title" binding:"omitempty,max=255"`
	Expense      decimal.Decimal `json:"expense" binding:"amount2dp"`
	Revenue      decimal.Decimal `json:"revenue" binding:"amount2dp"`
}

// PostEntryRequest creates an entry and all its lines atomically.
type PostEntryRequest struct {
	CreateEntryRequest
	Lines []TransactionLine `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest edits an entry header. Nil fields are left unchanged.
type UpdateEntryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Date        *Date   `json:"date"`
	DocumentURI *string `json:"documentURI" binding:"omitempty,max=1024"`
}

// UpdateTransactionRequest edits a transaction. Nil fields are left unchanged.
type UpdateTransactionRequest struct {
	AccountID       *int64           `json:"accountID"`
	ThirdPartyID    *int64           `json:"thirdPartyID"`
	ClearThirdParty bool             `json:"clearThirdParty"`
	AnalyticID      *int64           `json:"analyticID"`
	ClearAnalytic   bool             `json:"clearAnalytic"`
	Title           *string          `json:"title" binding:"omitempty,max=255"`
	Expense         *decimal.Decimal `json:"expense" binding:"omitempty,amount2dp"`
	Revenue         *decimal.Decimal `json:"revenue" binding:"omitempty,amount2dp"`
}

// ListEntriesParams filters ListEntries.
type ListEntriesParams struct {
	FiscalYearID int64  `form:"fiscalYearID" binding:"required"`
	Kind         string `form:"kind" binding:"omitempty,oneof=GENERIC PURCHASE SALE INCOME EXPENDITURE CASHING TRANSFER_ORDER"`
}

// ListAccountTransactionsParams pages an account ledger.
type ListAccountTransactionsParams struct {
	FiscalYearID *int64  `form:"fiscalYearID"`
	Limit        int     `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	NextToken    *string `form:"nextToken"`
}

// ListAccountTransactionsResponse is one page of an account ledger.
type ListAccountTransactionsResponse struct {
	Lines     []domain.LedgerLine `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// TransactionResponse adds the derived fields of a transaction.
type TransactionResponse struct {
	domain.Transaction
	Balance     decimal.Decimal `json:"balance"`
	LetterLabel string          `json:"letterLabel,omitempty"`
}

// EntryResponse is an entry with its lines and derived totals.
type EntryResponse struct {
	domain.Entry
	Transactions []TransactionResponse `json:"transactions"`
	Expense      decimal.Decimal       `json:"expense"`
	Revenue      decimal.Decimal       `json:"revenue"`
	Balance      decimal.Decimal       `json:"balance"`
	Balanced     bool                  `json:"balanced"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn domain.Transaction) TransactionResponse {
	resp := TransactionResponse{Transaction: txn, Balance: txn.Balance()}
	if txn.LetterID != nil {
		resp.LetterLabel = domain.LetterLabel(*txn.LetterID)
	}
	return resp
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(txn)
	}
	return responses
}

// ToEntryResponse converts a domain.EntryDetail to EntryResponse DTO.
func ToEntryResponse(d *domain.EntryDetail) EntryResponse {
	return EntryResponse{
		Entry:        d.Entry,
		Transactions: ToTransactionResponses(d.Transactions),
		Expense:      d.Expense,
		Revenue:      d.Revenue,
		Balance:      d.Balance(),
		Balanced:     d.Balanced(),
	}
}

package services_test

import (
	"testing"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	LedgerSuite
}

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func (suite *PostingServiceTestSuite) postEntry(kind domain.EntryKind, journal string, lines ...dto.TransactionLine) (*domain.EntryDetail, error) {
	return suite.container.Posting.PostEntry(suite.ctx, dto.PostEntryRequest{
		CreateEntryRequest: dto.CreateEntryRequest{
			JournalCode: journal,
			Kind:        kind,
			Date:        dto.NewDate(day(2024, 4, 2)),
			Title:       "Posted entry",
		},
		Lines: lines,
	}, testActor)
}

func (suite *PostingServiceTestSuite) TestPostEntry_ResolvesYearAndDerivesTotals() {
	detail, err := suite.postEntry(domain.KindGeneric, "OD",
		line(suite.bank.AccountID, "120.50", "0"),
		withAnalytic(line(suite.sales.AccountID, "0", "120.50"), suite.analytic.AnalyticID),
	)

	suite.Require().NoError(err)
	suite.Equal(suite.year2024.FiscalYearID, detail.FiscalYearID)
	suite.Len(detail.Transactions, 2)
	suite.True(detail.Balanced())
	suite.assertAmount("120.50", detail.Expense)
	suite.assertAmount("120.50", detail.Revenue)
	suite.assertAmount("-120.50", detail.Transactions[0].Balance())

	balanced, err := suite.container.Posting.EntryIsBalanced(suite.ctx, detail.EntryID)
	suite.Require().NoError(err)
	suite.True(balanced)
}

func (suite *PostingServiceTestSuite) TestPostEntry_RejectsUnbalancedWithoutPersisting() {
	_, err := suite.postEntry(domain.KindGeneric, "OD",
		line(suite.bank.AccountID, "100", "0"),
		line(suite.sales.AccountID, "0", "90"),
	)
	suite.ErrorIs(err, apperrors.ErrEntryUnbalanced)

	entries, err := suite.container.Posting.ListEntries(suite.ctx, dto.ListEntriesParams{FiscalYearID: suite.year2024.FiscalYearID})
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *PostingServiceTestSuite) TestPostEntry_RejectsThirdDecimal() {
	_, err := suite.postEntry(domain.KindGeneric, "OD",
		line(suite.bank.AccountID, "10.005", "0"),
		line(suite.sales.AccountID, "0", "10.005"),
	)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostEntry_UnknownJournal() {
	_, err := suite.postEntry(domain.KindGeneric, "ZZ", line(suite.bank.AccountID, "1", "0"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostEntry_DateOutsideAnyYear() {
	_, err := suite.container.Posting.PostEntry(suite.ctx, dto.PostEntryRequest{
		CreateEntryRequest: dto.CreateEntryRequest{JournalCode: "OD", Date: dto.NewDate(day(2030, 1, 1)), Title: "Future"},
		Lines:              []dto.TransactionLine{line(suite.bank.AccountID, "1", "0"), line(suite.sales.AccountID, "0", "1")},
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostEntry_KindShapes() {
	supplierID := suite.supplier.ThirdPartyID
	clientID := suite.client.ThirdPartyID

	testCases := []struct {
		name    string
		kind    domain.EntryKind
		lines   []dto.TransactionLine
		wantErr bool
	}{
		{
			name: "purchase with supplier line",
			kind: domain.KindPurchase,
			lines: []dto.TransactionLine{
				line(suite.purchases.AccountID, "80", "0"),
				withThirdParty(line(suite.payables.AccountID, "0", "80"), supplierID),
			},
		},
		{
			name:    "purchase without third party",
			kind:    domain.KindPurchase,
			lines:   []dto.TransactionLine{line(suite.purchases.AccountID, "80", "0"), line(suite.payables.AccountID, "0", "80")},
			wantErr: true,
		},
		{
			name: "purchase with two payables lines",
			kind: domain.KindPurchase,
			lines: []dto.TransactionLine{
				withThirdParty(line(suite.payables.AccountID, "80", "0"), supplierID),
				withThirdParty(line(suite.payables.AccountID, "0", "80"), supplierID),
			},
			wantErr: true,
		},
		{
			name: "sale with client line",
			kind: domain.KindSale,
			lines: []dto.TransactionLine{
				withThirdParty(line(suite.receivables.AccountID, "200", "0"), clientID),
				line(suite.sales.AccountID, "0", "200"),
			},
		},
		{
			name:  "income debits the bank",
			kind:  domain.KindIncome,
			lines: []dto.TransactionLine{line(suite.bank.AccountID, "50", "0"), line(suite.sales.AccountID, "0", "50")},
		},
		{
			name:    "income crediting the bank",
			kind:    domain.KindIncome,
			lines:   []dto.TransactionLine{line(suite.bank.AccountID, "0", "50"), line(suite.purchases.AccountID, "50", "0")},
			wantErr: true,
		},
		{
			name:  "expenditure credits the bank",
			kind:  domain.KindExpenditure,
			lines: []dto.TransactionLine{line(suite.bank.AccountID, "0", "50"), line(suite.purchases.AccountID, "50", "0")},
		},
		{
			name:  "cashing moves cash to the bank",
			kind:  domain.KindCashing,
			lines: []dto.TransactionLine{line(suite.bank.AccountID, "300", "0"), line(suite.cash.AccountID, "0", "300")},
		},
		{
			name:    "cashing without credited cash line",
			kind:    domain.KindCashing,
			lines:   []dto.TransactionLine{line(suite.bank.AccountID, "300", "0"), line(suite.sales.AccountID, "0", "300")},
			wantErr: true,
		},
		{
			name: "transfer order to supplier with IBAN",
			kind: domain.KindTransferOrder,
			lines: []dto.TransactionLine{
				line(suite.bank.AccountID, "0", "80"),
				withThirdParty(line(suite.payables.AccountID, "80", "0"), supplierID),
			},
		},
		{
			name: "transfer order to client without IBAN",
			kind: domain.KindTransferOrder,
			lines: []dto.TransactionLine{
				line(suite.bank.AccountID, "0", "80"),
				withThirdParty(line(suite.receivables.AccountID, "80", "0"), clientID),
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			detail, err := suite.postEntry(tc.kind, "OD", tc.lines...)
			if tc.wantErr {
				suite.ErrorIs(err, apperrors.ErrValidation)
				return
			}
			suite.Require().NoError(err)
			suite.Equal(tc.kind, detail.Kind)
		})
	}
}

func (suite *PostingServiceTestSuite) TestPostTransaction_ClosedPeriodPersistsNothing() {
	entry := suite.createEntry(suite.year2024, day(2024, 5, 1), "Before closing")
	_, err := suite.container.FiscalYear.SetOpened(suite.ctx, suite.year2024.FiscalYearID, false, testActor)
	suite.Require().NoError(err)

	_, err = suite.container.Posting.PostTransaction(suite.ctx, entry.EntryID, line(suite.bank.AccountID, "10", "0"), testActor)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)

	txns, err := suite.store.ListTransactions(suite.ctx, portsrepo.TransactionFilter{EntryIDs: []int64{entry.EntryID}})
	suite.Require().NoError(err)
	suite.Empty(txns)
	events, err := suite.container.Audit.ListAuditEvents(suite.ctx, domain.EntityTransaction, 1)
	suite.Require().NoError(err)
	suite.Empty(events)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_ClosedPeriod() {
	_, err := suite.container.FiscalYear.SetOpened(suite.ctx, suite.year2025.FiscalYearID, false, testActor)
	suite.Require().NoError(err)

	_, err = suite.container.Posting.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		JournalCode: "OD", Date: dto.NewDate(day(2025, 2, 1)), Title: "Late",
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

func (suite *PostingServiceTestSuite) TestUpdateTransaction_AmountChangeDestroysLetter() {
	txns := suite.postLines(suite.year2024, day(2024, 3, 1),
		withThirdParty(line(suite.payables.AccountID, "0", "40"), suite.supplier.ThirdPartyID),
		withThirdParty(line(suite.payables.AccountID, "40", "0"), suite.supplier.ThirdPartyID),
	)
	letter, err := suite.container.Lettering.Letter(suite.ctx, ids(txns...), testActor)
	suite.Require().NoError(err)

	newAmount := amount("45")
	updated, err := suite.container.Posting.UpdateTransaction(suite.ctx, txns[0].TransactionID, dto.UpdateTransactionRequest{Revenue: &newAmount}, testActor)
	suite.Require().NoError(err)

	suite.Nil(updated.LetterID)
	suite.Nil(suite.transaction(txns[0].TransactionID).LetterID)
	suite.Nil(suite.transaction(txns[1].TransactionID).LetterID)
	_, err = suite.store.FindLetterByID(suite.ctx, letter.LetterID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestUpdateTransaction_TitleChangeKeepsLetter() {
	txns := suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.bank.AccountID, "0", "40"),
		line(suite.bank.AccountID, "40", "0"),
	)
	letter, err := suite.container.Lettering.Letter(suite.ctx, ids(txns...), testActor)
	suite.Require().NoError(err)

	title := "Renamed"
	updated, err := suite.container.Posting.UpdateTransaction(suite.ctx, txns[0].TransactionID, dto.UpdateTransactionRequest{Title: &title}, testActor)
	suite.Require().NoError(err)

	suite.Require().NotNil(updated.LetterID)
	suite.Equal(letter.LetterID, *updated.LetterID)

	events, err := suite.container.Audit.ListAuditEvents(suite.ctx, domain.EntityTransaction, txns[0].TransactionID)
	suite.Require().NoError(err)
	last := events[len(events)-1]
	suite.Equal(domain.AuditUpdate, last.Action)
	suite.Equal("Renamed", last.Changes["title"].New)
	suite.NotContains(last.Changes, "expense")
}

func (suite *PostingServiceTestSuite) TestDeleteTransaction_DestroysLetter() {
	txns := suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.bank.AccountID, "0", "15"),
		line(suite.bank.AccountID, "15", "0"),
	)
	letter, err := suite.container.Lettering.Letter(suite.ctx, ids(txns...), testActor)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.container.Posting.DeleteTransaction(suite.ctx, txns[1].TransactionID, testActor))

	suite.Nil(suite.transaction(txns[0].TransactionID).LetterID)
	_, err = suite.store.FindLetterByID(suite.ctx, letter.LetterID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestDeleteEntry_CascadesTransactionsAndLetters() {
	first := suite.postLines(suite.year2024, day(2024, 3, 1), line(suite.bank.AccountID, "0", "15"))
	second := suite.postLines(suite.year2024, day(2024, 3, 2), line(suite.bank.AccountID, "15", "0"))
	letter, err := suite.container.Lettering.Letter(suite.ctx, ids(first[0], second[0]), testActor)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.container.Posting.DeleteEntry(suite.ctx, first[0].EntryID, testActor))

	_, err = suite.container.Posting.GetEntry(suite.ctx, first[0].EntryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.store.FindTransactionByID(suite.ctx, first[0].TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(suite.transaction(second[0].TransactionID).LetterID)
	_, err = suite.store.FindLetterByID(suite.ctx, letter.LetterID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestUpdateEntry_MovesDateWithinYear() {
	entry := suite.createEntry(suite.year2024, day(2024, 3, 1), "Original")
	newDate := dto.NewDate(day(2024, 12, 31))
	title := "Edited"

	detail, err := suite.container.Posting.UpdateEntry(suite.ctx, entry.EntryID, dto.UpdateEntryRequest{Title: &title, Date: &newDate}, testActor)
	suite.Require().NoError(err)
	suite.Equal("Edited", detail.Title)
	suite.True(detail.Date.Equal(day(2024, 12, 31)))

	outside := dto.NewDate(day(2025, 1, 1))
	_, err = suite.container.Posting.UpdateEntry(suite.ctx, entry.EntryID, dto.UpdateEntryRequest{Date: &outside}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestAccountBalance_ReconciliationCeiling() {
	txns := suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.bank.AccountID, "0", "100"),
		line(suite.bank.AccountID, "30", "0"),
	)
	rec := day(2024, 3, 31)
	suite.Require().NoError(suite.container.Reconciliation.SetReconciliation(suite.ctx, []int64{txns[0].TransactionID}, &rec, testActor))

	total, err := suite.container.Posting.AccountBalance(suite.ctx, suite.bank.AccountID, nil, nil)
	suite.Require().NoError(err)
	suite.assertAmount("70", total)

	asOf := day(2024, 4, 1)
	reconciled, err := suite.container.Posting.AccountBalance(suite.ctx, suite.bank.AccountID, &asOf, &suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.assertAmount("100", reconciled)
}

func (suite *PostingServiceTestSuite) TestListAccountTransactions_PagesWithRunningBalance() {
	suite.postLines(suite.year2024, day(2024, 3, 3), line(suite.cash.AccountID, "0", "10"))
	suite.postLines(suite.year2024, day(2024, 3, 1), line(suite.cash.AccountID, "0", "5"))
	suite.postLines(suite.year2024, day(2024, 3, 2), line(suite.cash.AccountID, "2", "0"))

	page, err := suite.container.Posting.ListAccountTransactions(suite.ctx, suite.cash.AccountID, dto.ListAccountTransactionsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Lines, 2)
	suite.Require().NotNil(page.NextToken)
	suite.True(page.Lines[0].EntryDate.Equal(day(2024, 3, 1)))
	suite.assertAmount("5", page.Lines[0].RunningBalance)
	suite.assertAmount("3", page.Lines[1].RunningBalance)

	next, err := suite.container.Posting.ListAccountTransactions(suite.ctx, suite.cash.AccountID, dto.ListAccountTransactionsParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(next.Lines, 1)
	suite.Nil(next.NextToken)
	suite.assertAmount("13", next.Lines[0].RunningBalance)

	bad := "not-a-token"
	_, err = suite.container.Posting.ListAccountTransactions(suite.ctx, suite.cash.AccountID, dto.ListAccountTransactionsParams{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestBalancesByAccountAndThirdParty() {
	suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.purchases.AccountID, "80", "0"),
		withThirdParty(line(suite.payables.AccountID, "0", "80"), suite.supplier.ThirdPartyID),
	)
	suite.postLines(suite.year2024, day(2024, 3, 5),
		withThirdParty(line(suite.payables.AccountID, "30", "0"), suite.supplier.ThirdPartyID),
		line(suite.bank.AccountID, "0", "30"),
	)

	byAccount, err := suite.container.Posting.AccountBalances(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.Require().Len(byAccount, 3)
	suite.Equal(suite.payables.AccountID, byAccount[0].AccountID)
	suite.assertAmount("50", byAccount[0].Balance())

	byThirdParty, err := suite.container.Posting.ThirdPartyBalances(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.Require().Len(byThirdParty, 1)
	suite.Equal(suite.supplier.ThirdPartyID, byThirdParty[0].ThirdPartyID)
	suite.assertAmount("50", byThirdParty[0].Balance())
}

package services_test

import (
	"testing"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ClosingServiceTestSuite struct {
	LedgerSuite
}

func TestClosingService(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}

func (suite *ClosingServiceTestSuite) closeYear() *domain.EntryDetail {
	detail, err := suite.container.Closing.CloseYear(suite.ctx, suite.year2024.FiscalYearID, suite.year2025.FiscalYearID, testActor)
	suite.Require().NoError(err)
	return detail
}

func linesOn(detail *domain.EntryDetail, accountID int64) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range detail.Transactions {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}

func (suite *ClosingServiceTestSuite) TestCloseYear_PostsProfit() {
	suite.postLines(suite.year2024, day(2024, 5, 1),
		withAnalytic(line(suite.sales.AccountID, "0", "1000"), suite.analytic.AnalyticID),
		line(suite.bank.AccountID, "1000", "0"),
	)
	suite.postLines(suite.year2024, day(2024, 6, 1),
		withAnalytic(line(suite.purchases.AccountID, "400", "0"), suite.analytic.AnalyticID),
		line(suite.bank.AccountID, "0", "400"),
	)

	detail := suite.closeYear()

	suite.Equal(suite.year2025.FiscalYearID, detail.FiscalYearID)
	suite.True(detail.Date.Equal(day(2025, 1, 1)))
	suite.Equal("Carry-forward", detail.Title)

	result := linesOn(detail, suite.profit.AccountID)
	suite.Require().Len(result, 1)
	suite.assertAmount("600", result[0].Revenue)
	suite.assertAmount("0", result[0].Expense)
	suite.Empty(linesOn(detail, suite.loss.AccountID))

	bank := linesOn(detail, suite.bank.AccountID)
	suite.Require().Len(bank, 1)
	suite.assertAmount("600", bank[0].Expense)
	suite.Empty(linesOn(detail, suite.sales.AccountID))
	suite.True(detail.Balanced())

	balance, err := suite.container.Posting.AccountBalance(suite.ctx, suite.bank.AccountID, nil, &suite.year2025.FiscalYearID)
	suite.Require().NoError(err)
	suite.assertAmount("-600", balance)
}

func (suite *ClosingServiceTestSuite) TestCloseYear_PostsLoss() {
	suite.postLines(suite.year2024, day(2024, 5, 1),
		withAnalytic(line(suite.purchases.AccountID, "250", "0"), suite.analytic.AnalyticID),
		line(suite.cash.AccountID, "0", "250"),
	)

	detail := suite.closeYear()

	loss := linesOn(detail, suite.loss.AccountID)
	suite.Require().Len(loss, 1)
	suite.assertAmount("250", loss[0].Expense)
	suite.Equal("Result of fiscal year 2024", loss[0].Title)
	suite.Empty(linesOn(detail, suite.profit.AccountID))
}

func (suite *ClosingServiceTestSuite) TestCloseYear_CopiesOpenThirdPartyLines() {
	supplierID := suite.supplier.ThirdPartyID
	suite.postLines(suite.year2024, day(2024, 9, 1),
		withAnalytic(line(suite.purchases.AccountID, "225", "0"), suite.analytic.AnalyticID),
		withThirdParty(line(suite.payables.AccountID, "0", "150"), supplierID),
		withThirdParty(line(suite.payables.AccountID, "0", "75"), supplierID),
	)
	settled := suite.postLines(suite.year2024, day(2024, 10, 1),
		withThirdParty(line(suite.payables.AccountID, "0", "30"), supplierID),
		withThirdParty(line(suite.payables.AccountID, "30", "0"), supplierID),
	)
	_, err := suite.container.Lettering.Letter(suite.ctx, ids(settled...), testActor)
	suite.Require().NoError(err)

	detail := suite.closeYear()

	payables := linesOn(detail, suite.payables.AccountID)
	suite.Require().Len(payables, 2)
	suite.assertAmount("150", payables[0].Revenue)
	suite.assertAmount("75", payables[1].Revenue)
	for _, t := range payables {
		suite.Require().NotNil(t.ThirdPartyID)
		suite.Equal(supplierID, *t.ThirdPartyID)
		suite.Nil(t.LetterID)
	}
}

func (suite *ClosingServiceTestSuite) TestCloseYear_NetsBalanceSheetAndSkipsZero() {
	suite.postLines(suite.year2024, day(2024, 2, 1),
		line(suite.equipment.AccountID, "800", "0"),
		line(suite.equity.AccountID, "0", "800"),
	)
	suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.cash.AccountID, "50", "0"),
		line(suite.cash.AccountID, "0", "50"),
	)

	detail := suite.closeYear()

	equipment := linesOn(detail, suite.equipment.AccountID)
	suite.Require().Len(equipment, 1)
	suite.assertAmount("800", equipment[0].Expense)
	equity := linesOn(detail, suite.equity.AccountID)
	suite.Require().Len(equity, 1)
	suite.assertAmount("800", equity[0].Revenue)
	suite.Empty(linesOn(detail, suite.cash.AccountID))
}

func (suite *ClosingServiceTestSuite) TestCloseYear_MarksOldYearClosedAndGuardsRerun() {
	suite.closeYear()

	old, err := suite.container.FiscalYear.GetFiscalYear(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.True(old.Closed)
	suite.False(old.Opened)

	_, err = suite.container.Closing.CloseYear(suite.ctx, suite.year2024.FiscalYearID, suite.year2025.FiscalYearID, testActor)
	suite.ErrorIs(err, apperrors.ErrYearAlreadyClosed)

	entries, err := suite.container.Posting.ListEntries(suite.ctx, dto.ListEntriesParams{FiscalYearID: suite.year2025.FiscalYearID})
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *ClosingServiceTestSuite) TestCloseYear_NewYearMustBeOpenedAndLater() {
	_, err := suite.container.Closing.CloseYear(suite.ctx, suite.year2025.FiscalYearID, suite.year2024.FiscalYearID, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.container.FiscalYear.SetOpened(suite.ctx, suite.year2025.FiscalYearID, false, testActor)
	suite.Require().NoError(err)
	_, err = suite.container.Closing.CloseYear(suite.ctx, suite.year2024.FiscalYearID, suite.year2025.FiscalYearID, testActor)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)

	old, err := suite.container.FiscalYear.GetFiscalYear(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.False(old.Closed)
}

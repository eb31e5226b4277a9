package services_test

import (
	"testing"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/stretchr/testify/suite"
)

type CheckServiceTestSuite struct {
	LedgerSuite
}

func TestCheckService(t *testing.T) {
	suite.Run(t, new(CheckServiceTestSuite))
}

func (suite *CheckServiceTestSuite) TestRunChecks_CleanYear() {
	suite.postLines(suite.year2024, day(2024, 3, 1),
		withAnalytic(line(suite.purchases.AccountID, "80", "0"), suite.analytic.AnalyticID),
		withThirdParty(line(suite.payables.AccountID, "0", "80"), suite.supplier.ThirdPartyID),
	)

	report, err := suite.container.Checks.RunChecks(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.True(report.Clean())
}

func (suite *CheckServiceTestSuite) TestRunChecks_ReportsEachViolation() {
	unbalanced := suite.postLines(suite.year2024, day(2024, 3, 1),
		line(suite.purchases.AccountID, "80", "0"),
		line(suite.payables.AccountID, "0", "70"),
		withAnalytic(line(suite.bank.AccountID, "0", "5"), suite.analytic.AnalyticID),
	)
	lettered := suite.postLines(suite.year2024, day(2024, 3, 2),
		line(suite.cash.AccountID, "0", "12"),
		line(suite.cash.AccountID, "12", "0"),
	)
	letter, err := suite.container.Lettering.Letter(suite.ctx, ids(lettered...), testActor)
	suite.Require().NoError(err)

	// Title edits keep the letter, so corrupt the amount directly in the store.
	broken := suite.transaction(lettered[0].TransactionID)
	broken.Revenue = amount("13")
	suite.Require().NoError(suite.store.UpdateTransaction(suite.ctx, broken))

	report, err := suite.container.Checks.RunChecks(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)

	suite.False(report.Clean())
	suite.Require().Len(report.UnbalancedEntries, 2)
	suite.Equal(unbalanced[0].EntryID, report.UnbalancedEntries[0].ID)
	suite.assertAmount("-5", report.UnbalancedEntries[0].Balance)
	suite.Require().Len(report.MissingAnalytic, 1)
	suite.Equal(unbalanced[0].TransactionID, report.MissingAnalytic[0].TransactionID)
	suite.Require().Len(report.ExtraneousAnalytic, 1)
	suite.Equal(unbalanced[2].TransactionID, report.ExtraneousAnalytic[0].TransactionID)
	suite.Require().Len(report.MissingThirdParty, 1)
	suite.Equal(unbalanced[1].TransactionID, report.MissingThirdParty[0].TransactionID)
	suite.Require().Len(report.UnbalancedLetters, 1)
	suite.Equal(letter.LetterID, report.UnbalancedLetters[0].ID)
	suite.Equal("A", report.UnbalancedLetters[0].Label)
}

func (suite *CheckServiceTestSuite) TestRunChecks_UnknownYear() {
	_, err := suite.container.Checks.RunChecks(suite.ctx, 404)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CheckServiceTestSuite) TestRunChecks_IgnoresOtherYears() {
	suite.postLines(suite.year2025, day(2025, 3, 1), line(suite.purchases.AccountID, "1", "0"))

	report, err := suite.container.Checks.RunChecks(suite.ctx, suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.True(report.Clean())
}

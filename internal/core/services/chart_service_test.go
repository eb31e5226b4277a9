package services_test

import (
	"testing"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ChartServiceTestSuite struct {
	LedgerSuite
}

func TestChartService(t *testing.T) {
	suite.Run(t, new(ChartServiceTestSuite))
}

func (suite *ChartServiceTestSuite) TestCreateAccount_Success() {
	acc, err := suite.container.Chart.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "6250000", Title: "Travel"}, testActor)

	suite.Require().NoError(err)
	suite.NotZero(acc.AccountID)
	suite.Equal(testActor, acc.CreatedBy)
	suite.Equal(domain.ClassExpense, acc.Class())

	events, err := suite.container.Audit.ListAuditEvents(suite.ctx, domain.EntityAccount, acc.AccountID)
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal(domain.AuditCreate, events[0].Action)
	suite.Equal("6250000", events[0].Changes["code"].New)
}

func (suite *ChartServiceTestSuite) TestCreateAccount_DuplicateCode() {
	_, err := suite.container.Chart.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "5120000", Title: "Bank again"}, testActor)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ChartServiceTestSuite) TestCreateAccount_MalformedCode() {
	_, err := suite.container.Chart.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "51A", Title: "Bad"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ChartServiceTestSuite) TestDeleteAccount_ReferencedByThirdParty() {
	err := suite.container.Chart.DeleteAccount(suite.ctx, suite.payables.AccountID, testActor)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)

	_, err = suite.container.Chart.GetAccountByID(suite.ctx, suite.payables.AccountID)
	suite.NoError(err)
}

func (suite *ChartServiceTestSuite) TestDeleteAccount_ReferencedByTransaction() {
	suite.postLines(suite.year2024, day(2024, 3, 1), line(suite.equipment.AccountID, "10", "0"))

	err := suite.container.Chart.DeleteAccount(suite.ctx, suite.equipment.AccountID, testActor)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)
}

func (suite *ChartServiceTestSuite) TestDeleteAccount_Unreferenced() {
	acc := suite.createAccount("6250000", "Travel")

	suite.Require().NoError(suite.container.Chart.DeleteAccount(suite.ctx, acc.AccountID, testActor))

	_, err := suite.container.Chart.GetAccountByCode(suite.ctx, "6250000")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ChartServiceTestSuite) TestCreateThirdParty_UnknownAccount() {
	_, err := suite.container.Chart.CreateThirdParty(suite.ctx, dto.CreateThirdPartyRequest{
		Code: "X002", Title: "Nobody", AccountCode: "4019999", Type: domain.ThirdPartySupplier,
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ChartServiceTestSuite) TestCreateThirdParty_NormalizesIBAN() {
	suite.Equal("FR7630006000011234567890189", suite.supplier.IBAN)
	suite.Equal(suite.payables.AccountID, suite.supplier.AccountID)
}

func (suite *ChartServiceTestSuite) TestDeleteThirdParty_Referenced() {
	suite.postLines(suite.year2024, day(2024, 3, 1), withThirdParty(line(suite.payables.AccountID, "0", "10"), suite.supplier.ThirdPartyID))

	err := suite.container.Chart.DeleteThirdParty(suite.ctx, suite.supplier.ThirdPartyID, testActor)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)

	suite.NoError(suite.container.Chart.DeleteThirdParty(suite.ctx, suite.client.ThirdPartyID, testActor))
}

func (suite *ChartServiceTestSuite) TestListings() {
	accounts, err := suite.container.Chart.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, 10)
	suite.Equal("1020000", accounts[0].Code)

	journals, err := suite.container.Chart.ListJournals(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(journals, 4)

	analytics, err := suite.container.Chart.ListAnalytics(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(analytics, 1)

	tps, err := suite.container.Chart.ListThirdParties(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(tps, 2)
}

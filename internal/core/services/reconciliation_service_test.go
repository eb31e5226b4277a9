package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	LedgerSuite
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func (suite *ReconciliationServiceTestSuite) statement(date time.Time, balance string) domain.BankStatement {
	stmt, err := suite.container.Reconciliation.CreateBankStatement(suite.ctx, dto.CreateBankStatementRequest{
		FiscalYearID: suite.year2024.FiscalYearID,
		Date:         dto.NewDate(date),
		Number:       1,
		Balance:      amount(balance),
	}, testActor)
	suite.Require().NoError(err)
	return *stmt
}

func (suite *ReconciliationServiceTestSuite) reconcile(date time.Time, txns ...domain.Transaction) {
	suite.Require().NoError(suite.container.Reconciliation.SetReconciliation(suite.ctx, ids(txns...), &date, testActor))
}

func (suite *ReconciliationServiceTestSuite) TestDiscrepancyReachesZero() {
	txns := suite.postLines(suite.year2024, day(2024, 1, 10),
		line(suite.bank.AccountID, "500", "0"),
		line(suite.bank.AccountID, "0", "120.25"),
	)
	stmt := suite.statement(day(2024, 1, 31), "379.75")

	discrepancy, err := suite.container.Reconciliation.ReconciliationDiscrepancy(suite.ctx, stmt)
	suite.Require().NoError(err)
	suite.assertAmount("379.75", discrepancy)

	suite.reconcile(day(2024, 1, 31), txns...)

	result, err := suite.container.Reconciliation.Reconcile(suite.ctx, stmt.BankStatementID)
	suite.Require().NoError(err)
	suite.assertAmount("379.75", result.EntriesBalance)
	suite.True(result.Reconciled())
}

func (suite *ReconciliationServiceTestSuite) TestDiscrepancyIgnoresLaterReconciliations() {
	first := suite.postLines(suite.year2024, day(2024, 1, 10), line(suite.bank.AccountID, "100", "0"))
	suite.reconcile(day(2024, 1, 31), first...)
	jan := suite.statement(day(2024, 1, 31), "100")
	feb := suite.statement(day(2024, 2, 29), "140")

	late := suite.postLines(suite.year2024, day(2024, 2, 10), line(suite.bank.AccountID, "40", "0"))
	suite.reconcile(day(2024, 2, 29), late...)
	after := suite.postLines(suite.year2024, day(2024, 3, 3), line(suite.bank.AccountID, "999", "0"))
	suite.reconcile(day(2024, 3, 31), after...)

	janGap, err := suite.container.Reconciliation.ReconciliationDiscrepancy(suite.ctx, jan)
	suite.Require().NoError(err)
	suite.assertAmount("0", janGap)
	febGap, err := suite.container.Reconciliation.ReconciliationDiscrepancy(suite.ctx, feb)
	suite.Require().NoError(err)
	suite.assertAmount("0", febGap)
}

func (suite *ReconciliationServiceTestSuite) TestNextUnreconciledWindow() {
	old := suite.postLines(suite.year2024, day(2024, 1, 5), line(suite.bank.AccountID, "10", "0"))
	suite.reconcile(day(2024, 1, 31), old...)
	suite.statement(day(2024, 1, 31), "10")

	late := suite.postLines(suite.year2024, day(2024, 1, 20), line(suite.bank.AccountID, "20", "0"))
	suite.reconcile(day(2024, 2, 15), late...)
	openLater := suite.postLines(suite.year2024, day(2024, 2, 20), line(suite.bank.AccountID, "5", "0"))
	openEarlier := suite.postLines(suite.year2024, day(2024, 2, 1), line(suite.bank.AccountID, "7", "0"))
	suite.postLines(suite.year2024, day(2024, 2, 1), line(suite.cash.AccountID, "7", "0"))

	window, err := suite.container.Reconciliation.NextUnreconciledWindow(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]int64{openEarlier[0].TransactionID, openLater[0].TransactionID, late[0].TransactionID}, ids(window...))
}

func (suite *ReconciliationServiceTestSuite) TestNextUnreconciledWindow_WithoutStatement() {
	reconciledLate := suite.postLines(suite.year2024, day(2024, 1, 2), line(suite.bank.AccountID, "3", "0"))
	suite.reconcile(day(2024, 3, 1), reconciledLate...)
	reconciledEarly := suite.postLines(suite.year2024, day(2024, 1, 5), line(suite.bank.AccountID, "10", "0"))
	suite.reconcile(day(2024, 1, 31), reconciledEarly...)
	open := suite.postLines(suite.year2024, day(2024, 1, 20), line(suite.bank.AccountID, "0", "4"))

	window, err := suite.container.Reconciliation.NextUnreconciledWindow(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]int64{
		open[0].TransactionID,
		reconciledEarly[0].TransactionID,
		reconciledLate[0].TransactionID,
	}, ids(window...))
}

func (suite *ReconciliationServiceTestSuite) TestNextUnreconciledWindow_SkipsFutureReconciliation() {
	// the suite clock is 2024-06-15
	future := suite.postLines(suite.year2024, day(2024, 6, 1), line(suite.bank.AccountID, "8", "0"))
	suite.reconcile(day(2024, 7, 31), future...)
	current := suite.postLines(suite.year2024, day(2024, 6, 2), line(suite.bank.AccountID, "9", "0"))
	suite.reconcile(day(2024, 6, 15), current...)

	window, err := suite.container.Reconciliation.NextUnreconciledWindow(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]int64{current[0].TransactionID}, ids(window...))
}

func (suite *ReconciliationServiceTestSuite) TestStatementTransactions() {
	jan := suite.postLines(suite.year2024, day(2024, 1, 5), line(suite.bank.AccountID, "10", "0"))
	suite.reconcile(day(2024, 1, 31), jan...)
	suite.statement(day(2024, 1, 31), "10")

	feb := suite.postLines(suite.year2024, day(2024, 2, 5), line(suite.bank.AccountID, "20", "0"))
	suite.reconcile(day(2024, 2, 28), feb...)
	pending := suite.postLines(suite.year2024, day(2024, 2, 10), line(suite.bank.AccountID, "3", "0"))
	suite.postLines(suite.year2024, day(2024, 3, 10), line(suite.bank.AccountID, "4", "0"))
	stmt := suite.statement(day(2024, 2, 29), "30")

	txns, err := suite.container.Reconciliation.StatementTransactions(suite.ctx, stmt.BankStatementID)
	suite.Require().NoError(err)
	suite.ElementsMatch([]int64{feb[0].TransactionID, pending[0].TransactionID}, ids(txns...))
}

func (suite *ReconciliationServiceTestSuite) TestSetReconciliation_RejectsNonBankAccount() {
	txns := suite.postLines(suite.year2024, day(2024, 1, 5), line(suite.cash.AccountID, "10", "0"))
	date := day(2024, 1, 31)

	err := suite.container.Reconciliation.SetReconciliation(suite.ctx, ids(txns...), &date, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(suite.transaction(txns[0].TransactionID).Reconciliation)
}

func (suite *ReconciliationServiceTestSuite) TestSetReconciliation_Untag() {
	txns := suite.postLines(suite.year2024, day(2024, 1, 5), line(suite.bank.AccountID, "10", "0"))
	suite.reconcile(day(2024, 1, 31), txns...)
	suite.NotNil(suite.transaction(txns[0].TransactionID).Reconciliation)

	suite.Require().NoError(suite.container.Reconciliation.SetReconciliation(suite.ctx, ids(txns...), nil, testActor))
	suite.Nil(suite.transaction(txns[0].TransactionID).Reconciliation)
}

func (suite *ReconciliationServiceTestSuite) TestCreateBankStatement_Rules() {
	suite.statement(day(2024, 1, 31), "0")

	_, err := suite.container.Reconciliation.CreateBankStatement(suite.ctx, dto.CreateBankStatementRequest{
		FiscalYearID: suite.year2024.FiscalYearID, Date: dto.NewDate(day(2024, 1, 31)), Balance: amount("1"),
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.container.Reconciliation.CreateBankStatement(suite.ctx, dto.CreateBankStatementRequest{
		FiscalYearID: suite.year2024.FiscalYearID, Date: dto.NewDate(day(2025, 1, 31)), Balance: amount("1"),
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	stmts, err := suite.container.Reconciliation.ListBankStatements(suite.ctx, &suite.year2024.FiscalYearID)
	suite.Require().NoError(err)
	suite.Len(stmts, 1)
}

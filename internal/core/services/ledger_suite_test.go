package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/platform/clock"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testActor = "treasurer"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(accountID int64, expense, revenue string) dto.TransactionLine {
	return dto.TransactionLine{AccountID: accountID, Expense: amount(expense), Revenue: amount(revenue)}
}

func withThirdParty(l dto.TransactionLine, id int64) dto.TransactionLine {
	l.ThirdPartyID = &id
	return l
}

func withAnalytic(l dto.TransactionLine, id int64) dto.TransactionLine {
	l.AnalyticID = &id
	return l
}

// LedgerSuite runs services against the in-memory store with a seeded chart of accounts.
type LedgerSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	container *services.Container

	year2024 domain.FiscalYear
	year2025 domain.FiscalYear

	equity      domain.Account // 1020000
	profit      domain.Account // 1200000
	loss        domain.Account // 1290000
	equipment   domain.Account // 2150000
	payables    domain.Account // 4010000
	receivables domain.Account // 4110000
	bank        domain.Account // 5120000
	cash        domain.Account // 5300000
	purchases   domain.Account // 6010000
	sales       domain.Account // 7010000

	supplier domain.ThirdParty // X001, with IBAN
	client   domain.ThirdParty // C001, without IBAN
	analytic domain.Analytic
}

func (suite *LedgerSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	cfg := config.DefaultLedgerConfig()
	cfg.BankAccountCodes = []string{"5120000"}
	suite.container = services.NewContainer(suite.store,
		services.WithClock(clock.NewFixed(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))),
		services.WithLedgerConfig(cfg),
	)

	for _, j := range []dto.CreateJournalRequest{
		{Code: "OD", Title: "Miscellaneous"},
		{Code: "BQ", Title: "Bank"},
		{Code: "HA", Title: "Purchases"},
		{Code: "VT", Title: "Sales"},
	} {
		_, err := suite.container.Chart.CreateJournal(suite.ctx, j, testActor)
		suite.Require().NoError(err)
	}

	suite.equity = suite.createAccount("1020000", "Association fund")
	suite.profit = suite.createAccount("1200000", "Result (profit)")
	suite.loss = suite.createAccount("1290000", "Result (loss)")
	suite.equipment = suite.createAccount("2150000", "Equipment")
	suite.payables = suite.createAccount("4010000", "Suppliers")
	suite.receivables = suite.createAccount("4110000", "Clients")
	suite.bank = suite.createAccount("5120000", "Bank")
	suite.cash = suite.createAccount("5300000", "Cash box")
	suite.purchases = suite.createAccount("6010000", "Purchases")
	suite.sales = suite.createAccount("7010000", "Sales")

	supplier, err := suite.container.Chart.CreateThirdParty(suite.ctx, dto.CreateThirdPartyRequest{
		Code: "X001", Title: "Paper & Co", AccountCode: "4010000", Type: domain.ThirdPartySupplier, IBAN: "FR76 3000 6000 0112 3456 7890 189",
	}, testActor)
	suite.Require().NoError(err)
	suite.supplier = *supplier
	client, err := suite.container.Chart.CreateThirdParty(suite.ctx, dto.CreateThirdPartyRequest{
		Code: "C001", Title: "Town hall", AccountCode: "4110000", Type: domain.ThirdPartyClient,
	}, testActor)
	suite.Require().NoError(err)
	suite.client = *client

	analytic, err := suite.container.Chart.CreateAnalytic(suite.ctx, dto.CreateAnalyticRequest{Code: "EVT", Title: "Events"}, testActor)
	suite.Require().NoError(err)
	suite.analytic = *analytic

	suite.year2024 = suite.createYear("2024", day(2024, 1, 1), day(2025, 1, 1), true)
	suite.year2025 = suite.createYear("2025", day(2025, 1, 1), day(2026, 1, 1), true)
}

func (suite *LedgerSuite) createAccount(code, title string) domain.Account {
	acc, err := suite.container.Chart.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: code, Title: title}, testActor)
	suite.Require().NoError(err)
	return *acc
}

func (suite *LedgerSuite) createYear(title string, start, end time.Time, opened bool) domain.FiscalYear {
	year, err := suite.container.FiscalYear.CreateFiscalYear(suite.ctx, dto.CreateFiscalYearRequest{
		Title: title, Start: dto.NewDate(start), End: dto.NewDate(end), Opened: opened,
	}, testActor)
	suite.Require().NoError(err)
	return *year
}

// createEntry creates an empty entry in the given year.
func (suite *LedgerSuite) createEntry(year domain.FiscalYear, date time.Time, title string) domain.EntryDetail {
	detail, err := suite.container.Posting.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		FiscalYearID: year.FiscalYearID, JournalCode: "OD", Date: dto.NewDate(date), Title: title,
	}, testActor)
	suite.Require().NoError(err)
	return *detail
}

// postLines adds each line to a new entry one at a time, without any balance or shape rule.
func (suite *LedgerSuite) postLines(year domain.FiscalYear, date time.Time, lines ...dto.TransactionLine) []domain.Transaction {
	entry := suite.createEntry(year, date, "Entry")
	txns := make([]domain.Transaction, 0, len(lines))
	for _, l := range lines {
		txn, err := suite.container.Posting.PostTransaction(suite.ctx, entry.EntryID, l, testActor)
		suite.Require().NoError(err)
		txns = append(txns, *txn)
	}
	return txns
}

func (suite *LedgerSuite) assertAmount(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	suite.Truef(amount(expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}

func (suite *LedgerSuite) transaction(id int64) domain.Transaction {
	txn, err := suite.store.FindTransactionByID(suite.ctx, id)
	suite.Require().NoError(err)
	return *txn
}

func ids(txns ...domain.Transaction) []int64 {
	out := make([]int64, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}

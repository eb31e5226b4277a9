//go:build integration

package pgsql_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/association_ledger/internal/apperrors"
	"github.com/SscSPs/association_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/association_ledger/internal/core/services"
	"github.com/SscSPs/association_ledger/internal/dto"
	"github.com/SscSPs/association_ledger/internal/platform/clock"
	"github.com/SscSPs/association_ledger/internal/platform/config"
	"github.com/SscSPs/association_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/association_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const integrationActor = "integration"

func migrationsSource() string {
	_, filename, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(filename), "..", "..", "..", "..", "migrations")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StoreIntegrationSuite runs the PostgreSQL store against a throwaway container.
type StoreIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *pgsql.Store
	svc       *services.Container

	year     domain.FiscalYear
	bank     domain.Account
	cash     domain.Account
	payables domain.Account
	supplier domain.ThirdParty
	analytic domain.Analytic
}

func TestStoreIntegration(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(StoreIntegrationSuite))
}

func (suite *StoreIntegrationSuite) SetupSuite() {
	suite.ctx = context.Background()

	pg, err := postgres.Run(suite.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ledger"),
		postgres.WithUsername("ledger"),
		postgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err, "failed to start postgres container")
	suite.container = pg

	dsn, err := pg.ConnectionString(suite.ctx, "sslmode=disable")
	suite.Require().NoError(err)

	result, err := database.RunMigrations(dsn, migrationsSource(), 0)
	suite.Require().NoError(err)
	suite.Require().True(result.Changed)
	suite.Require().False(result.Dirty)

	suite.pool, err = database.NewPgxPool(suite.ctx, dsn, true)
	suite.Require().NoError(err)
	suite.store = pgsql.NewStore(suite.pool)
}

func (suite *StoreIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(suite.pool)
	if suite.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := suite.container.Terminate(ctx); err != nil {
			suite.T().Logf("warning: failed to terminate postgres container: %v", err)
		}
	}
}

func (suite *StoreIntegrationSuite) SetupTest() {
	_, err := suite.pool.Exec(suite.ctx, `
		TRUNCATE audit_events, bank_statements, transactions, letters, entries,
		         fiscal_years, journals, analytics, third_parties, accounts
		RESTART IDENTITY CASCADE`)
	suite.Require().NoError(err)

	cfg := config.DefaultLedgerConfig()
	cfg.BankAccountCodes = []string{"5120000"}
	suite.svc = services.NewContainer(suite.store,
		services.WithClock(clock.NewFixed(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))),
		services.WithLedgerConfig(cfg),
	)

	_, err = suite.svc.Chart.CreateJournal(suite.ctx, dto.CreateJournalRequest{Code: "OD", Title: "Miscellaneous"}, integrationActor)
	suite.Require().NoError(err)
	suite.bank = suite.createAccount("5120000", "Bank")
	suite.cash = suite.createAccount("5300000", "Cash box")
	suite.payables = suite.createAccount("4010000", "Suppliers")
	suite.createAccount("6010000", "Purchases")

	supplier, err := suite.svc.Chart.CreateThirdParty(suite.ctx, dto.CreateThirdPartyRequest{
		Code: "X001", Title: "Paper & Co", AccountCode: "4010000", Type: domain.ThirdPartySupplier,
	}, integrationActor)
	suite.Require().NoError(err)
	suite.supplier = *supplier
	analytic, err := suite.svc.Chart.CreateAnalytic(suite.ctx, dto.CreateAnalyticRequest{Code: "EVT", Title: "Events"}, integrationActor)
	suite.Require().NoError(err)
	suite.analytic = *analytic

	year, err := suite.svc.FiscalYear.CreateFiscalYear(suite.ctx, dto.CreateFiscalYearRequest{
		Title: "2024", Start: dto.NewDate(date(2024, 1, 1)), End: dto.NewDate(date(2025, 1, 1)), Opened: true,
	}, integrationActor)
	suite.Require().NoError(err)
	suite.year = *year
}

func (suite *StoreIntegrationSuite) createAccount(code, title string) domain.Account {
	acc, err := suite.svc.Chart.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: code, Title: title}, integrationActor)
	suite.Require().NoError(err)
	return *acc
}

// postLines adds each line to a new entry one at a time.
func (suite *StoreIntegrationSuite) postLines(on time.Time, lines ...dto.TransactionLine) []domain.Transaction {
	entry, err := suite.svc.Posting.CreateEntry(suite.ctx, dto.CreateEntryRequest{
		FiscalYearID: suite.year.FiscalYearID, JournalCode: "OD", Date: dto.NewDate(on), Title: "Entry",
	}, integrationActor)
	suite.Require().NoError(err)
	txns := make([]domain.Transaction, 0, len(lines))
	for _, l := range lines {
		txn, err := suite.svc.Posting.PostTransaction(suite.ctx, entry.EntryID, l, integrationActor)
		suite.Require().NoError(err)
		txns = append(txns, *txn)
	}
	return txns
}

func (suite *StoreIntegrationSuite) reconcile(on time.Time, txns ...domain.Transaction) {
	suite.Require().NoError(suite.svc.Reconciliation.SetReconciliation(suite.ctx, idsOf(txns...), &on, integrationActor))
}

func bankLine(accountID int64, expense, revenue string) dto.TransactionLine {
	return dto.TransactionLine{
		AccountID: accountID,
		Expense:   decimal.RequireFromString(expense),
		Revenue:   decimal.RequireFromString(revenue),
	}
}

func idsOf(txns ...domain.Transaction) []int64 {
	out := make([]int64, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}

func (suite *StoreIntegrationSuite) TestWithinTx_RollbackDiscardsWrites() {
	errStop := errors.New("stop")
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		acc := domain.Account{Code: "6060000", Title: "Supplies", AuditFields: domain.NewAuditFields(integrationActor, time.Now())}
		if err := store.SaveAccount(ctx, &acc); err != nil {
			return err
		}
		suite.NotZero(acc.AccountID)
		return errStop
	})
	suite.ErrorIs(err, errStop)

	_, err = suite.store.FindAccountByCode(suite.ctx, "6060000")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreIntegrationSuite) TestWithinTx_NestedJoinsOuter() {
	errStop := errors.New("stop")
	err := suite.store.WithinTx(suite.ctx, func(ctx context.Context, outer portsrepo.LedgerStore) error {
		first := domain.Account{Code: "6060000", Title: "Supplies", AuditFields: domain.NewAuditFields(integrationActor, time.Now())}
		if err := outer.SaveAccount(ctx, &first); err != nil {
			return err
		}
		return outer.(portsrepo.LedgerRepository).WithinTx(ctx, func(ctx context.Context, inner portsrepo.LedgerStore) error {
			second := domain.Account{Code: "6070000", Title: "Goods", AuditFields: domain.NewAuditFields(integrationActor, time.Now())}
			if err := inner.SaveAccount(ctx, &second); err != nil {
				return err
			}
			return errStop
		})
	})
	suite.ErrorIs(err, errStop)

	for _, code := range []string{"6060000", "6070000"} {
		_, err := suite.store.FindAccountByCode(suite.ctx, code)
		suite.ErrorIs(err, apperrors.ErrNotFound, code)
	}

	err = suite.store.WithinTx(suite.ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		acc := domain.Account{Code: "6060000", Title: "Supplies", AuditFields: domain.NewAuditFields(integrationActor, time.Now())}
		return store.SaveAccount(ctx, &acc)
	})
	suite.Require().NoError(err)
	_, err = suite.store.FindAccountByCode(suite.ctx, "6060000")
	suite.NoError(err)
}

func (suite *StoreIntegrationSuite) TestDuplicateAccountCode() {
	acc := domain.Account{Code: "5120000", Title: "Second bank", AuditFields: domain.NewAuditFields(integrationActor, time.Now())}
	suite.ErrorIs(suite.store.SaveAccount(suite.ctx, &acc), apperrors.ErrDuplicate)
}

func (suite *StoreIntegrationSuite) TestDeleteReferencedAccount() {
	suite.postLines(date(2024, 3, 1), bankLine(suite.cash.AccountID, "10", "0"))

	suite.ErrorIs(suite.store.DeleteAccount(suite.ctx, suite.cash.AccountID), apperrors.ErrReferentialIntegrity)
	suite.ErrorIs(suite.svc.Chart.DeleteAccount(suite.ctx, suite.cash.AccountID, integrationActor), apperrors.ErrReferentialIntegrity)

	_, err := suite.store.FindAccountByID(suite.ctx, suite.cash.AccountID)
	suite.NoError(err)
}

func (suite *StoreIntegrationSuite) TestOverlappingFiscalYearRejectedByConstraint() {
	overlap := domain.FiscalYear{
		Title:       "2024bis",
		Start:       date(2024, 7, 1),
		End:         date(2025, 7, 1),
		Opened:      true,
		AuditFields: domain.NewAuditFields(integrationActor, time.Now()),
	}
	suite.ErrorIs(suite.store.SaveFiscalYear(suite.ctx, &overlap), apperrors.ErrValidation)

	adjacent := domain.FiscalYear{
		Title:       "2025",
		Start:       date(2025, 1, 1),
		End:         date(2026, 1, 1),
		AuditFields: domain.NewAuditFields(integrationActor, time.Now()),
	}
	suite.NoError(suite.store.SaveFiscalYear(suite.ctx, &adjacent))
}

func (suite *StoreIntegrationSuite) TestPostEntry_RoundTrip() {
	supplierID := suite.supplier.ThirdPartyID
	analyticID := suite.analytic.AnalyticID
	purchases, err := suite.store.FindAccountByCode(suite.ctx, "6010000")
	suite.Require().NoError(err)
	deadline := dto.NewDate(date(2024, 4, 30))

	posted, err := suite.svc.Posting.PostEntry(suite.ctx, dto.PostEntryRequest{
		CreateEntryRequest: dto.CreateEntryRequest{
			FiscalYearID: suite.year.FiscalYearID,
			JournalCode:  "OD",
			Kind:         domain.KindPurchase,
			Date:         dto.NewDate(date(2024, 4, 2)),
			Title:        "Paper",
			Number:       "INV-42",
			Deadline:     &deadline,
		},
		Lines: []dto.TransactionLine{
			{AccountID: purchases.AccountID, AnalyticID: &analyticID, Expense: decimal.RequireFromString("12.30")},
			{AccountID: suite.payables.AccountID, ThirdPartyID: &supplierID, Revenue: decimal.RequireFromString("12.30")},
		},
	}, integrationActor)
	suite.Require().NoError(err)
	suite.Require().Len(posted.Transactions, 2)
	suite.NotZero(posted.Transactions[0].TransactionID)
	suite.NotEqual(posted.Transactions[0].TransactionID, posted.Transactions[1].TransactionID)

	loaded, err := suite.svc.Posting.GetEntry(suite.ctx, posted.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.KindPurchase, loaded.Kind)
	suite.True(loaded.Date.Equal(date(2024, 4, 2)))
	suite.Require().NotNil(loaded.Deadline)
	suite.True(loaded.Deadline.Equal(date(2024, 4, 30)))
	suite.Equal("INV-42", loaded.Number)
	suite.Require().Len(loaded.Transactions, 2)
	suite.Equal(idsOf(posted.Transactions...), idsOf(loaded.Transactions...))
	suite.True(loaded.Transactions[0].Expense.Equal(decimal.RequireFromString("12.30")))
	suite.Require().NotNil(loaded.Transactions[1].ThirdPartyID)
	suite.Equal(supplierID, *loaded.Transactions[1].ThirdPartyID)
	suite.True(loaded.Expense.Equal(loaded.Revenue))
}

func (suite *StoreIntegrationSuite) TestLetter_ConcurrentOverlappingSets() {
	txns := suite.postLines(date(2024, 2, 1),
		bankLine(suite.bank.AccountID, "0", "25"),
		bankLine(suite.bank.AccountID, "25", "0"),
		bankLine(suite.bank.AccountID, "25", "0"),
	)
	sets := [][]int64{idsOf(txns[0], txns[1]), idsOf(txns[0], txns[2])}

	const workers = 8
	errs := make([]error, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = suite.svc.Lettering.Letter(suite.ctx, sets[i%len(sets)], integrationActor)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.Truef(errors.Is(err, apperrors.ErrAlreadyLettered), "unexpected error: %v", err)
	}
	suite.Equal(1, succeeded)

	lettered, err := suite.store.ListTransactions(suite.ctx, portsrepo.TransactionFilter{IDs: idsOf(txns...), Lettered: true})
	suite.Require().NoError(err)
	suite.Len(lettered, 2)
}

func (suite *StoreIntegrationSuite) TestNextUnreconciledWindow_WithoutStatement() {
	reconciledLate := suite.postLines(date(2024, 1, 2), bankLine(suite.bank.AccountID, "3", "0"))
	suite.reconcile(date(2024, 3, 1), reconciledLate...)
	reconciledEarly := suite.postLines(date(2024, 1, 5), bankLine(suite.bank.AccountID, "10", "0"))
	suite.reconcile(date(2024, 1, 31), reconciledEarly...)
	future := suite.postLines(date(2024, 6, 1), bankLine(suite.bank.AccountID, "8", "0"))
	suite.reconcile(date(2024, 7, 31), future...)
	open := suite.postLines(date(2024, 1, 20), bankLine(suite.bank.AccountID, "0", "4"))
	suite.postLines(date(2024, 1, 20), bankLine(suite.cash.AccountID, "0", "4"))

	window, err := suite.svc.Reconciliation.NextUnreconciledWindow(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]int64{
		open[0].TransactionID,
		reconciledEarly[0].TransactionID,
		reconciledLate[0].TransactionID,
	}, idsOf(window...))
}

func (suite *StoreIntegrationSuite) TestNextUnreconciledWindow_AfterStatement() {
	old := suite.postLines(date(2024, 1, 5), bankLine(suite.bank.AccountID, "10", "0"))
	suite.reconcile(date(2024, 1, 31), old...)
	_, err := suite.svc.Reconciliation.CreateBankStatement(suite.ctx, dto.CreateBankStatementRequest{
		FiscalYearID: suite.year.FiscalYearID,
		Date:         dto.NewDate(date(2024, 1, 31)),
		Number:       1,
		Balance:      decimal.RequireFromString("10"),
	}, integrationActor)
	suite.Require().NoError(err)

	late := suite.postLines(date(2024, 1, 20), bankLine(suite.bank.AccountID, "20", "0"))
	suite.reconcile(date(2024, 2, 15), late...)
	openLater := suite.postLines(date(2024, 2, 20), bankLine(suite.bank.AccountID, "5", "0"))
	openEarlier := suite.postLines(date(2024, 2, 1), bankLine(suite.bank.AccountID, "7", "0"))

	window, err := suite.svc.Reconciliation.NextUnreconciledWindow(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]int64{
		openEarlier[0].TransactionID,
		openLater[0].TransactionID,
		late[0].TransactionID,
	}, idsOf(window...))
}

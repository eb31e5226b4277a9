package services

import (
	portsrepo "github.com/SscSPs/association_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/association_ledger/internal/core/ports/services"
	"github.com/SscSPs/association_ledger/internal/platform/clock"
	"github.com/SscSPs/association_ledger/internal/platform/config"
)

// Container holds all the services and manages their dependencies
type Container struct {
	Chart          portssvc.ChartSvcFacade
	FiscalYear     portssvc.FiscalYearSvcFacade
	Posting        portssvc.PostingSvcFacade
	Lettering      portssvc.LetteringSvcFacade
	Reconciliation portssvc.ReconciliationSvcFacade
	Closing        portssvc.ClosingSvcFacade
	Checks         portssvc.CheckSvcFacade
	Export         portssvc.ExportSvcFacade
	Audit          portssvc.AuditSvcFacade
}

type containerOptions struct {
	clock  clock.Clock
	ledger config.LedgerConfig
}

// ContainerOption is a functional option for configuring the services
type ContainerOption func(*containerOptions)

// WithClock injects the source of "now".
func WithClock(c clock.Clock) ContainerOption {
	return func(o *containerOptions) {
		o.clock = c
	}
}

// WithLedgerConfig overrides the chart-of-accounts conventions.
func WithLedgerConfig(cfg config.LedgerConfig) ContainerOption {
	return func(o *containerOptions) {
		o.ledger = cfg
	}
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repo portsrepo.LedgerRepository, options ...ContainerOption) *Container {
	opts := containerOptions{clock: clock.NewReal(), ledger: config.DefaultLedgerConfig()}
	for _, option := range options {
		option(&opts)
	}

	base := BaseService{repo: repo, clock: opts.clock}
	fiscalYears := &fiscalYearService{BaseService: base}

	return &Container{
		Chart:          &chartService{BaseService: base},
		FiscalYear:     fiscalYears,
		Posting:        &postingService{BaseService: base, years: fiscalYears},
		Lettering:      &letteringService{BaseService: base},
		Reconciliation: &reconciliationService{BaseService: base, years: fiscalYears, bankAccountCodes: opts.ledger.BankAccountCodes},
		Closing:        &closingService{BaseService: base, years: fiscalYears, cfg: opts.ledger},
		Checks:         &checkService{BaseService: base},
		Export:         &exportService{BaseService: base},
		Audit:          &auditService{BaseService: base},
	}
}

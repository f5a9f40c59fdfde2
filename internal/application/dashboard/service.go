package dashboard

import (
	"context"
	"time"

	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PendingRemarkFragment marks income rows still awaiting payment.
const PendingRemarkFragment = "pending"

// Stats is the aggregate dashboard snapshot.
type Stats struct {
	TotalClients     int64                      `json:"totalClients"`
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
	PendingIncome    decimal.Decimal            `json:"pendingIncome"`
	UpcomingExpenses decimal.Decimal            `json:"upcomingExpenses"`
	Renewals         []vaultapp.RenewalResponse `json:"renewals"`
}

// Service aggregates dashboard statistics. Renewals are served from a live
// mirror of the upcoming-renewals view when a change feed is available, and
// fetched directly otherwise.
type Service struct {
	clients     directory.ClientRepository
	incomes     ledger.EntryRepository
	expenses    ledger.EntryRepository
	credentials *vaultapp.CredentialService
	renewals    *event.Mirror[vaultapp.RenewalResponse]
	now         func() time.Time
}

// NewService creates a dashboard service. The feed may be nil when realtime
// is disabled.
func NewService(
	clients directory.ClientRepository,
	incomes ledger.EntryRepository,
	expenses ledger.EntryRepository,
	credentials *vaultapp.CredentialService,
	feed event.ChangeFeed,
	logger *zap.Logger,
) *Service {
	s := &Service{
		clients:     clients,
		incomes:     incomes,
		expenses:    expenses,
		credentials: credentials,
		now:         time.Now,
	}
	if feed != nil {
		s.renewals = event.NewMirror(feed, vaultapp.RenewalsTable,
			func(r vaultapp.RenewalResponse) uuid.UUID { return r.ID },
			credentials.ListRenewals,
			logger,
		)
	}
	return s
}

// Start begins mirroring the renewals view. No-op when realtime is disabled.
func (s *Service) Start(ctx context.Context) error {
	if s.renewals == nil {
		return nil
	}
	return s.renewals.Start(ctx)
}

// Stop releases the renewals mirror subscription.
func (s *Service) Stop() {
	if s.renewals != nil {
		s.renewals.Stop()
	}
}

// Stats computes the dashboard snapshot: client count, ledger totals,
// pending income, expenses dated in the future, and upcoming renewals.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := telemetry.StartSpan(ctx, "dashboard.stats")
	defer span.End()

	totalClients, err := s.clients.Count(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	totalIncome, err := s.incomes.SumAmounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	totalExpenses, err := s.expenses.SumAmounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pendingIncome, err := s.incomes.SumAmountsWithRemark(ctx, PendingRemarkFragment)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	upcomingExpenses, err := s.expenses.SumAmountsAfter(ctx, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var renewals []vaultapp.RenewalResponse
	if s.renewals != nil {
		renewals = s.renewals.Rows()
		telemetry.SetAttribute(span, "renewals.mirrored", true)
	} else {
		renewals, err = s.credentials.ListRenewals(ctx)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	return &Stats{
		TotalClients:     totalClients,
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		PendingIncome:    pendingIncome,
		UpcomingExpenses: upcomingExpenses,
		Renewals:         renewals,
	}, nil
}

//go:build integration

package business_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bizfilings/internal/business"
	"bizfilings/internal/filing"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/platform/tx"
	"bizfilings/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *business.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = business.NewPostgresStore(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE business_snapshots`)
	s.Require().NoError(err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	snap := filing.EntitySnapshot{
		Identifier:                   "BC0871227",
		LegalName:                    "0871227 B.C. LTD.",
		LegalType:                    filing.LegalTypeBEN,
		State:                        filing.StateActive,
		GoodStanding:                 true,
		HasCourtOrders:               true,
		FoundingDate:                 date(2022, 1, 1),
		LastAnnualReportDate:         date(2023, 1, 15),
		InLimitedRestoration:         true,
		RestorationDate:              date(2023, 6, 1),
		LimitedRestorationExpiry:     date(2024, 6, 1),
		PrevAgmDate:                  date(2022, 12, 1),
		TotalApprovedExtensionMonths: 6,
	}
	s.Require().NoError(s.store.Upsert(ctx, snap))

	got, err := s.store.Snapshot(ctx, "BC0871227")
	s.Require().NoError(err)
	s.Equal(snap, *got)
	s.True(got.DissolutionDate.IsZero())
}

func (s *PostgresStoreSuite) TestUpsertReplaces() {
	ctx := context.Background()
	snap := filing.EntitySnapshot{Identifier: "CP0001234", LegalType: filing.LegalTypeCP, State: filing.StateActive, GoodStanding: true}
	s.Require().NoError(s.store.Upsert(ctx, snap))

	snap.State = filing.StateHistorical
	snap.DissolutionDate = date(2020, 3, 1)
	s.Require().NoError(s.store.Upsert(ctx, snap))

	got, err := s.store.Snapshot(ctx, "CP0001234")
	s.Require().NoError(err)
	s.Equal(filing.StateHistorical, got.State)
	s.Equal(date(2020, 3, 1), got.DissolutionDate)
}

func (s *PostgresStoreSuite) TestNotFound() {
	_, err := s.store.Snapshot(context.Background(), "BC0000000")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestBatchLookup() {
	ctx := context.Background()
	for _, id := range []string{"BC0000001", "BC0000002", "FM0000003"} {
		s.Require().NoError(s.store.Upsert(ctx, filing.EntitySnapshot{Identifier: id, LegalType: filing.LegalTypeBC, State: filing.StateActive}))
	}

	got, err := s.store.Snapshots(ctx, []string{"BC0000001", "FM0000003", "BC9999999"})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Contains(got, "BC0000001")
	s.Contains(got, "FM0000003")
}

func (s *PostgresStoreSuite) TestImport() {
	ctx := context.Background()
	s.Require().NoError(s.store.Import(ctx,
		filing.EntitySnapshot{Identifier: "BC0000001", LegalType: filing.LegalTypeBC, State: filing.StateActive},
		filing.EntitySnapshot{Identifier: "BC0000002", LegalType: filing.LegalTypeULC, State: filing.StateLiquidation},
	))

	got, err := s.store.Snapshots(ctx, []string{"BC0000001", "BC0000002"})
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *PostgresStoreSuite) TestFailedUnitOfWorkRollsBack() {
	ctx := context.Background()
	errStop := errors.New("stop")

	err := tx.Run(ctx, s.pg.DB, func(ctx context.Context) error {
		s.Require().NoError(s.store.Upsert(ctx, filing.EntitySnapshot{Identifier: "BC0000009", LegalType: filing.LegalTypeBC, State: filing.StateActive}))
		return errStop
	})
	s.ErrorIs(err, errStop)

	_, err = s.store.Snapshot(ctx, "BC0000009")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/lib/pq"

	"bizfilings/internal/filing"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/platform/tx"
)

// Schema creates the snapshot table. The table is a read model fed by the
// registry; this service never writes to it outside of tests and seeding.
const Schema = `
CREATE TABLE IF NOT EXISTS business_snapshots (
	identifier                      TEXT PRIMARY KEY,
	legal_name                      TEXT NOT NULL DEFAULT '',
	legal_type                      TEXT NOT NULL,
	state                           TEXT NOT NULL,
	good_standing                   BOOLEAN NOT NULL DEFAULT TRUE,
	admin_freeze                    BOOLEAN NOT NULL DEFAULT FALSE,
	has_court_orders                BOOLEAN NOT NULL DEFAULT FALSE,
	founding_date                   DATE,
	last_annual_report_date         DATE,
	last_address_change_date        DATE,
	last_director_change_date       DATE,
	dissolution_date                DATE,
	amalgamated                     BOOLEAN NOT NULL DEFAULT FALSE,
	continued_out                   BOOLEAN NOT NULL DEFAULT FALSE,
	in_limited_restoration          BOOLEAN NOT NULL DEFAULT FALSE,
	restoration_date                DATE,
	limited_restoration_expiry      DATE,
	prev_agm_date                   DATE,
	total_approved_extension_months INTEGER NOT NULL DEFAULT 0
)`

const snapshotColumns = `identifier, legal_name, legal_type, state, good_standing, admin_freeze,
	has_court_orders, founding_date, last_annual_report_date, last_address_change_date,
	last_director_change_date, dissolution_date, amalgamated, continued_out,
	in_limited_restoration, restoration_date, limited_restoration_expiry, prev_agm_date,
	total_approved_extension_months`

// OpenPostgres opens a pool through the pgx database/sql driver and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresStore reads snapshots from the business_snapshots table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply snapshot schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Snapshot(ctx context.Context, identifier string) (*filing.EntitySnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM business_snapshots WHERE identifier = $1`, identifier)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("business %s: %w", identifier, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load business %s: %w", identifier, err)
	}
	return snap, nil
}

// Snapshots loads several businesses in one round trip. Unknown identifiers
// are absent from the result.
func (s *PostgresStore) Snapshots(ctx context.Context, identifiers []string) (map[string]*filing.EntitySnapshot, error) {
	out := make(map[string]*filing.EntitySnapshot, len(identifiers))
	if len(identifiers) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM business_snapshots WHERE identifier = ANY($1)`, pq.Array(identifiers))
	if err != nil {
		return nil, fmt.Errorf("load businesses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out[snap.Identifier] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return out, nil
}

// Import upserts all snapshots in one transaction.
func (s *PostgresStore) Import(ctx context.Context, snaps ...filing.EntitySnapshot) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		for _, snap := range snaps {
			if err := s.Upsert(ctx, snap); err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert writes a snapshot, joining the transaction on ctx if any. Used for
// seeding and integration tests.
func (s *PostgresStore) Upsert(ctx context.Context, snap filing.EntitySnapshot) error {
	query := `
		INSERT INTO business_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (identifier) DO UPDATE SET
			legal_name = EXCLUDED.legal_name,
			legal_type = EXCLUDED.legal_type,
			state = EXCLUDED.state,
			good_standing = EXCLUDED.good_standing,
			admin_freeze = EXCLUDED.admin_freeze,
			has_court_orders = EXCLUDED.has_court_orders,
			founding_date = EXCLUDED.founding_date,
			last_annual_report_date = EXCLUDED.last_annual_report_date,
			last_address_change_date = EXCLUDED.last_address_change_date,
			last_director_change_date = EXCLUDED.last_director_change_date,
			dissolution_date = EXCLUDED.dissolution_date,
			amalgamated = EXCLUDED.amalgamated,
			continued_out = EXCLUDED.continued_out,
			in_limited_restoration = EXCLUDED.in_limited_restoration,
			restoration_date = EXCLUDED.restoration_date,
			limited_restoration_expiry = EXCLUDED.limited_restoration_expiry,
			prev_agm_date = EXCLUDED.prev_agm_date,
			total_approved_extension_months = EXCLUDED.total_approved_extension_months
	`
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		snap.Identifier, snap.LegalName, string(snap.LegalType), string(snap.State),
		snap.GoodStanding, snap.AdminFreeze, snap.HasCourtOrders,
		nullDate(snap.FoundingDate), nullDate(snap.LastAnnualReportDate),
		nullDate(snap.LastAddressChangeDate), nullDate(snap.LastDirectorChangeDate),
		nullDate(snap.DissolutionDate), snap.Amalgamated, snap.ContinuedOut,
		snap.InLimitedRestoration, nullDate(snap.RestorationDate),
		nullDate(snap.LimitedRestorationExpiry), nullDate(snap.PrevAgmDate),
		snap.TotalApprovedExtensionMonths,
	)
	if err != nil {
		return fmt.Errorf("upsert business %s: %w", snap.Identifier, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*filing.EntitySnapshot, error) {
	var (
		snap                                   filing.EntitySnapshot
		legalType, state                       string
		founding, lastAR, lastAddr, lastDir    sql.NullTime
		dissolution, restoration, limitedUntil sql.NullTime
		prevAgm                                sql.NullTime
	)
	err := row.Scan(
		&snap.Identifier, &snap.LegalName, &legalType, &state,
		&snap.GoodStanding, &snap.AdminFreeze, &snap.HasCourtOrders,
		&founding, &lastAR, &lastAddr, &lastDir,
		&dissolution, &snap.Amalgamated, &snap.ContinuedOut,
		&snap.InLimitedRestoration, &restoration, &limitedUntil, &prevAgm,
		&snap.TotalApprovedExtensionMonths,
	)
	if err != nil {
		return nil, err
	}

	snap.LegalType = filing.LegalType(legalType)
	snap.State = filing.State(state)
	snap.FoundingDate = dateOf(founding)
	snap.LastAnnualReportDate = dateOf(lastAR)
	snap.LastAddressChangeDate = dateOf(lastAddr)
	snap.LastDirectorChangeDate = dateOf(lastDir)
	snap.DissolutionDate = dateOf(dissolution)
	snap.RestorationDate = dateOf(restoration)
	snap.LimitedRestorationExpiry = dateOf(limitedUntil)
	snap.PrevAgmDate = dateOf(prevAgm)
	return &snap, nil
}

func dateOf(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return time.Date(t.Time.Year(), t.Time.Month(), t.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.DateOnly)
}

package rosterdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresRepository stores the roster in the players table using Bun ORM.
type PostgresRepository struct {
	db *bun.DB
}

// NewPostgresRepository wraps an existing Bun connection.
func NewPostgresRepository(db *bun.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres connects to Postgres with the pgdriver connector.
func OpenPostgres(dsn string) *bun.DB {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(pgdb, pgdialect.New())
}

// Load returns every player ordered by roster position.
func (r *PostgresRepository) Load(ctx context.Context) (rosterdomain.Roster, error) {
	var rows []PlayerRow
	err := r.db.NewSelect().
		Model(&rows).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	roster := make(rosterdomain.Roster, len(rows))
	for i, row := range rows {
		roster[i] = row.toPlayer()
	}
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// Save replaces the players table contents in a single transaction.
func (r *PostgresRepository) Save(ctx context.Context, roster rosterdomain.Roster) error {
	now := time.Now().UTC()
	rows := make([]PlayerRow, len(roster))
	for i, p := range roster {
		rows[i] = toRow(i, p, now)
	}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PlayerRow)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear players: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert players: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

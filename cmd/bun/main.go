package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	rosterdb "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/repositories"
	rostermigrations "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/league-score-manager/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// migrations holds the connection opened from --config for the duration of one command.
type migrations struct {
	db       *bun.DB
	migrator *migrate.Migrator
}

func newApp(stdout io.Writer) *cli.App {
	m := &migrations{}

	return &cli.App{
		Name:   "bun",
		Usage:  "roster database migrations",
		Writer: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "Path to the configuration file"},
		},
		// Only the database connection is read from the configuration.
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Postgres.DSN == "" {
				return errors.New("postgres dsn is not configured, set DATABASE_URL")
			}

			m.db = rosterdb.OpenPostgres(cfg.Postgres.DSN)
			m.migrator = migrate.NewMigrator(m.db, rostermigrations.Migrations)
			return nil
		},
		After: func(c *cli.Context) error {
			if m.db != nil {
				return m.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			newDBCommand(m),
		},
	}
}

func newDBCommand(m *migrations) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return m.migrator.Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					if err := m.migrator.Lock(c.Context); err != nil {
						return err
					}
					defer m.migrator.Unlock(c.Context) //nolint:errcheck

					group, err := m.migrator.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintln(c.App.Writer, "there are no new migrations to run (database is up to date)")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					if err := m.migrator.Lock(c.Context); err != nil {
						return err
					}
					defer m.migrator.Unlock(c.Context) //nolint:errcheck

					group, err := m.migrator.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintln(c.App.Writer, "there are no groups to roll back")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					name, err := migrationName(c)
					if err != nil {
						return err
					}
					mf, err := m.migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					name, err := migrationName(c)
					if err != nil {
						return err
					}
					files, err := m.migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Fprintf(c.App.Writer, "created migration %s (%s)\n", mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					ms, err := m.migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "migrations: %s\n", ms)
					fmt.Fprintf(c.App.Writer, "unapplied migrations: %s\n", ms.Unapplied())
					fmt.Fprintf(c.App.Writer, "last migration group: %s\n", ms.LastGroup())
					return nil
				},
			},
		},
	}
}

func migrationName(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", errors.New("migration name is required")
	}
	return strings.Join(c.Args().Slice(), "_"), nil
}

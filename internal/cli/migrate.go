package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/file"
	pgstore "timed-quiz/internal/infra/postgres"
	pgmigrations "timed-quiz/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and optionally seeds the bank.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	var bankPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			if !seed {
				return nil
			}
			if bankPath == "" {
				bankPath = cfg.Bank.Path
			}
			return seedBank(cmd.Context(), cfg, bankPath)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load the bank file into Postgres after migrating")
	cmd.Flags().StringVar(&bankPath, "bank", "", "bank file to seed (defaults to bank.path)")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}

func seedBank(ctx context.Context, cfg config.Config, path string) error {
	bank, err := file.NewBankLoader(path).LoadBank(ctx)
	if err != nil {
		return err
	}
	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	if err := pgstore.SeedBank(ctx, db, bank); err != nil {
		return err
	}
	log.Printf("seeded %d questions from %s", len(bank.Questions), path)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/database"
	"github.com/octobees/contact-enricher/internal/enrichment"
	"github.com/octobees/contact-enricher/internal/repository"
	"github.com/octobees/contact-enricher/internal/service"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "enrichctl",
	Short: "Operate the contact enrichment job",
	Long:  "Runs bulk enrichment pages against Hunter, Apollo and Lusha from the command line and inspects per-contact enrichment state.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

type env struct {
	pool    *pgxpool.Pool
	Service *service.EnrichmentService
}

func (e *env) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func initEnrichment(ctx context.Context) (*env, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL, database.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		return nil, eris.Wrap(err, "enrichctl: connect database")
	}

	contacts := repository.NewPGXContactsRepository(pool)
	orchestrator := enrichment.FromConfig(cfg.Enrichment, contacts, enrichment.WithLogger(zap.L()))
	if len(orchestrator.Enabled()) == 0 {
		zap.L().Warn("no enrichment provider keys configured")
	}

	return &env{
		pool:    pool,
		Service: service.NewEnrichmentService(orchestrator, contacts),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

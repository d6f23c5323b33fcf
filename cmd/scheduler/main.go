// Command scheduler runs the IJACK database maintenance jobs. Each subcommand
// is one cron entry; the binary does a single pass and exits, leaving the
// cadence to cron.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ijack-technologies/postgresql-scheduler/internal/application/alarmlog"
	"github.com/ijack-technologies/postgresql-scheduler/internal/application/alerts"
	"github.com/ijack-technologies/postgresql-scheduler/internal/application/inventory"
	"github.com/ijack-technologies/postgresql-scheduler/internal/application/views"
	"github.com/ijack-technologies/postgresql-scheduler/internal/infrastructure/postgres"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/config"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scheduler",
		Short:         "IJACK database maintenance jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAlertsCmd(),
		newInventoryCmd(),
		newDedupeCmd(),
		newRefreshViewsCmd(),
		newAllCmd(),
	)
	return root
}

func newAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Expand bulk alert subscriptions into individual alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("alerts_bulk_processor", runAlerts)
		},
	}
}

func newInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Consolidate warehouse stock onto the latest part revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("inventory_consolidator", runInventory)
		},
	}
}

func newDedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Delete duplicate alarm log rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("alarm_log_dedupe", runDedupe)
		},
	}
}

func newRefreshViewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-views",
		Short: "Refresh the configured materialized views",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("mv_refresh", runRefreshViews)
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every maintenance job once, in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob("all", func(ctx context.Context, a *app) error {
				for _, job := range []func(context.Context, *app) error{
					runDedupe, runRefreshViews, runAlerts, runInventory,
				} {
					if err := job(ctx, a); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// app holds the shared dependencies of a single job run.
type app struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

// runJob loads config, builds the logger and pool, and runs fn with a run id
// stamped on every log line for correlation.
func runJob(name string, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	base := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log := logger.FromZerolog(base.With().
		Str("job", name).
		Str("run_id", uuid.NewString()).
		Logger())

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("PostgreSQL connection failed")
		return err
	}
	defer pool.Close()

	log.Info().Str("env", cfg.App.Env).Msg("job starting")
	if err := fn(ctx, &app{cfg: cfg, log: log, pool: pool}); err != nil {
		log.Error().Err(err).Msg("job failed")
		return err
	}
	log.Info().Msg("job finished")
	return nil
}

func runAlerts(ctx context.Context, a *app) error {
	processor := alerts.NewBulkProcessor(
		postgres.NewBulkAlertRepository(a.pool),
		postgres.NewPowerUnitRepository(a.pool),
		postgres.NewAlertRepository(a.pool),
		alerts.Options{
			BatchSize:         a.cfg.Maintenance.AlertBatchSize,
			ExcludedCustomers: a.cfg.Maintenance.ExcludedCustomers,
			UnitTimeout:       a.cfg.Maintenance.UnitTimeout,
		},
		a.log,
	)
	stats, err := processor.ProcessAll(ctx)
	if err != nil {
		return err
	}
	if stats.Errors > 0 {
		a.log.Warn().Int("errors", stats.Errors).Msg("bulk alert run completed with unit failures")
	}
	return nil
}

func runInventory(ctx context.Context, a *app) error {
	consolidator := inventory.NewConsolidator(
		postgres.NewPartRepository(a.pool),
		postgres.NewTxRunner(a.pool),
		a.cfg.Maintenance.UnitTimeout,
		a.log,
	)
	stats, err := consolidator.Consolidate(ctx)
	if err != nil {
		return err
	}
	if stats.FamiliesFailed > 0 {
		a.log.Warn().Int("families_failed", stats.FamiliesFailed).Msg("consolidation completed with family failures")
	}
	return nil
}

func runDedupe(ctx context.Context, a *app) error {
	_, err := alarmlog.NewDeduper(postgres.NewAlarmLogRepository(a.pool), a.log).Run(ctx)
	return err
}

func runRefreshViews(ctx context.Context, a *app) error {
	refresher := views.NewRefresher(
		postgres.NewViewRepository(a.pool),
		a.cfg.Maintenance.MaterializedViews,
		a.cfg.Maintenance.UnitTimeout,
		a.log,
	)
	stats, err := refresher.RefreshAll(ctx)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		a.log.Warn().Int("views_failed", stats.Failed).Msg("view refresh completed with failures")
	}
	return nil
}

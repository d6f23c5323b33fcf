package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

const defaultUnitTimeout = 60 * time.Second

// Stats aggregates one consolidation run.
type Stats struct {
	FamiliesProcessed int
	FamiliesFailed    int
	TransfersApplied  int
}

// Consolidator migrates warehouse quantities from superseded part revisions
// onto the latest revision of each part-name family. The latest revision is
// recomputed from part_rev on every run; nothing is cached between runs, so a
// completed consolidation re-runs as a no-op.
type Consolidator struct {
	partRepo    repository.PartRepository
	txRunner    TxRunner
	unitTimeout time.Duration
	log         *logger.Logger
}

// NewConsolidator builds the consolidator. A non-positive unitTimeout falls
// back to the default per-family transaction budget.
func NewConsolidator(partRepo repository.PartRepository, txRunner TxRunner, unitTimeout time.Duration, log *logger.Logger) *Consolidator {
	if unitTimeout <= 0 {
		unitTimeout = defaultUnitTimeout
	}
	return &Consolidator{
		partRepo:    partRepo,
		txRunner:    txRunner,
		unitTimeout: unitTimeout,
		log:         log,
	}
}

// Consolidate processes every multi-revision family. A failing family is
// logged and counted; it never aborts the remaining families. Only a failure
// to list the families themselves is fatal.
func (c *Consolidator) Consolidate(ctx context.Context) (Stats, error) {
	var stats Stats

	families, err := c.partRepo.ListRevisionFamilies(ctx)
	if err != nil {
		return stats, fmt.Errorf("list revision families: %w", err)
	}
	if len(families) == 0 {
		c.log.Info().Msg("no multi-revision part families found")
		return stats, nil
	}
	c.log.Info().Int("families", len(families)).Msg("consolidating part revisions")

	for _, fam := range families {
		applied, err := c.consolidateFamily(ctx, fam)
		if err != nil {
			c.log.Error().Err(err).
				Str("part_name", fam.Name).
				Int("revisions", len(fam.Revisions)).
				Msg("family consolidation failed")
			stats.FamiliesFailed++
			continue
		}
		stats.FamiliesProcessed++
		stats.TransfersApplied += applied
	}

	c.log.Info().
		Int("families_processed", stats.FamiliesProcessed).
		Int("families_failed", stats.FamiliesFailed).
		Int("transfers_applied", stats.TransfersApplied).
		Msg("revision consolidation finished")
	return stats, nil
}

// consolidateFamily runs one family as a single transaction: lock the
// family's stock rows, plan the transfers from the locked values, apply them.
// Reading inside the transaction is what prevents a concurrent run from
// double-counting the same quantities.
func (c *Consolidator) consolidateFamily(ctx context.Context, fam entity.RevisionFamily) (int, error) {
	fctx, cancel := context.WithTimeout(ctx, c.unitTimeout)
	defer cancel()

	var applied int
	err := c.txRunner.Run(fctx, func(stockRepo repository.PartStockRepository) error {
		stocks, err := stockRepo.ListForUpdate(fctx, fam.PartIDs())
		if err != nil {
			return fmt.Errorf("lock stock rows: %w", err)
		}

		plan := buildTransferPlan(fam, stocks)
		if plan.isEmpty() {
			return nil
		}

		for _, t := range plan.transfers {
			if err := stockRepo.Accumulate(fctx, t); err != nil {
				return fmt.Errorf("accumulate onto part %d warehouse %d: %w", t.PartID, t.WarehouseID, err)
			}
		}
		if err := stockRepo.ZeroQuantities(fctx, plan.zeroes); err != nil {
			return fmt.Errorf("zero donor rows: %w", err)
		}

		applied = len(plan.transfers)
		return nil
	})
	return applied, err
}

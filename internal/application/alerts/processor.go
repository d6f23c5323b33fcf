package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

const (
	defaultBatchSize   = 500
	defaultUnitTimeout = 60 * time.Second
)

// Stats aggregates one bulk alert processing run.
type Stats struct {
	SubscriptionsProcessed int
	UnitsMatched           int
	Created                int
	Updated                int
	Skipped                int
	Errors                 int
}

// Options tunes the processor. Zero values fall back to defaults.
type Options struct {
	// BatchSize caps the power units written per statement.
	BatchSize int
	// ExcludedCustomers are demo/test customers that matching must ignore.
	ExcludedCustomers []int64
	// UnitTimeout bounds each chunk write.
	UnitTimeout time.Duration
}

// BulkProcessor expands alerts_bulk subscriptions into individual alert rows.
// Each subscription is matched against the live fleet and written in bounded,
// conflict-safe batches; a failing subscription or chunk is reported and
// skipped so the rest of the run proceeds.
type BulkProcessor struct {
	bulkRepo  repository.BulkAlertRepository
	unitRepo  repository.PowerUnitRepository
	alertRepo repository.AlertRepository

	batchSize         int
	excludedCustomers []int64
	unitTimeout       time.Duration
	log               *logger.Logger
}

// NewBulkProcessor builds the processor.
func NewBulkProcessor(
	bulkRepo repository.BulkAlertRepository,
	unitRepo repository.PowerUnitRepository,
	alertRepo repository.AlertRepository,
	opts Options,
	log *logger.Logger,
) *BulkProcessor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.UnitTimeout <= 0 {
		opts.UnitTimeout = defaultUnitTimeout
	}
	return &BulkProcessor{
		bulkRepo:          bulkRepo,
		unitRepo:          unitRepo,
		alertRepo:         alertRepo,
		batchSize:         opts.BatchSize,
		excludedCustomers: opts.ExcludedCustomers,
		unitTimeout:       opts.UnitTimeout,
		log:               log,
	}
}

// ProcessAll processes every bulk subscription. It only returns an error when
// the subscription list itself cannot be read; per-subscription and per-chunk
// failures are isolated and counted in Stats.Errors.
func (p *BulkProcessor) ProcessAll(ctx context.Context) (Stats, error) {
	var stats Stats

	subs, err := p.bulkRepo.ListAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("list bulk subscriptions: %w", err)
	}
	if len(subs) == 0 {
		p.log.Info().Msg("no bulk alert subscriptions to process")
		return stats, nil
	}
	p.log.Info().Int("subscriptions", len(subs)).Msg("processing bulk alert subscriptions")

	for _, sub := range subs {
		if err := p.processOne(ctx, sub, &stats); err != nil {
			p.log.Error().Err(err).
				Int64("bulk_alert_id", sub.ID).
				Int64("user_id", sub.UserID).
				Msg("bulk subscription failed")
			stats.Errors++
			continue
		}
		stats.SubscriptionsProcessed++
	}

	p.log.Info().
		Int("subscriptions_processed", stats.SubscriptionsProcessed).
		Int("units_matched", stats.UnitsMatched).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Msg("bulk alert processing finished")
	return stats, nil
}

func (p *BulkProcessor) processOne(ctx context.Context, sub *entity.BulkAlert, stats *Stats) error {
	filter := repository.UnitFilter{
		UnitTypeID:  sub.UnitTypeID,
		ModelTypeID: sub.ModelTypeID,
		CustomerID:  sub.CustomerID,
	}

	// Create-only subscriptions exclude already-alerted units at match time,
	// so the write set contains only genuinely new rows.
	var excludeFor *int64
	if !sub.UpdateExisting {
		excludeFor = &sub.UserID
	}

	ids, err := p.unitRepo.MatchIDs(ctx, filter, p.excludedCustomers, excludeFor)
	if err != nil {
		return fmt.Errorf("match power units: %w", err)
	}
	stats.UnitsMatched += len(ids)
	p.log.Debug().
		Int64("bulk_alert_id", sub.ID).
		Bool("wildcard", sub.IsWildcard()).
		Int("matched", len(ids)).
		Msg("matched power units")
	if len(ids) == 0 {
		return nil
	}

	for i, chunk := range chunkIDs(ids, p.batchSize) {
		res, err := p.upsertChunk(ctx, sub, chunk)
		if err != nil {
			// Chunks already written stay committed; this chunk's units remain
			// eligible for the next run because the upsert is idempotent.
			p.log.Error().Err(err).
				Int64("bulk_alert_id", sub.ID).
				Int("chunk", i+1).
				Int("chunk_size", len(chunk)).
				Msg("alert chunk write failed")
			stats.Errors++
			continue
		}
		stats.Created += res.Created
		stats.Updated += res.Updated
		stats.Skipped += res.Skipped
	}
	return nil
}

func (p *BulkProcessor) upsertChunk(ctx context.Context, sub *entity.BulkAlert, chunk []int64) (repository.UpsertResult, error) {
	cctx, cancel := context.WithTimeout(ctx, p.unitTimeout)
	defer cancel()
	return p.alertRepo.UpsertBatch(cctx, sub, chunk, sub.UpdateExisting)
}

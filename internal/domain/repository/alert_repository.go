package repository

import (
	"context"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
)

// UpsertResult row counts from one alert batch write.
type UpsertResult struct {
	Created int
	Updated int
	Skipped int
}

// AlertRepository writes individual alert rows derived from a bulk
// subscription.
type AlertRepository interface {
	// UpsertBatch writes one alert per power unit in a single conflict-safe
	// statement, so the whole batch commits or fails together.
	//
	// With updateExisting true the statement overwrites the mutable fields of
	// alerts that already exist (idempotent: a second identical run changes
	// nothing). With updateExisting false it inserts only, and rows lost to a
	// concurrent writer's conflict are counted as skipped, not errors.
	UpsertBatch(ctx context.Context, sub *entity.BulkAlert, powerUnitIDs []int64, updateExisting bool) (UpsertResult, error)
}

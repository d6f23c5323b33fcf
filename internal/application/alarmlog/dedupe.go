package alarmlog

import (
	"context"
	"fmt"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

// Deduper removes the duplicate alarm_log rows that accumulate when gateways
// retransmit the same alarm. Runs once a day; the table grows duplicates fast
// if left alone.
type Deduper struct {
	repo repository.AlarmLogRepository
	log  *logger.Logger
}

// NewDeduper builds the dedupe job.
func NewDeduper(repo repository.AlarmLogRepository, log *logger.Logger) *Deduper {
	return &Deduper{repo: repo, log: log}
}

// Run deletes duplicates and returns how many rows went away. The whole
// delete is one statement, so it commits or fails atomically.
func (d *Deduper) Run(ctx context.Context) (int64, error) {
	deleted, err := d.repo.DeleteDuplicates(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete duplicate alarms: %w", err)
	}
	d.log.Info().Int64("rows_deleted", deleted).Msg("alarm log deduplication finished")
	return deleted, nil
}

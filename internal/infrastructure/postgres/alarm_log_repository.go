package postgres

import (
	"context"
	"fmt"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.AlarmLogRepository = (*AlarmLogRepo)(nil)

// AlarmLogRepo implements AlarmLogRepository over PostgreSQL.
type AlarmLogRepo struct {
	q Querier
}

// NewAlarmLogRepository builds the adapter. Pass a pool or tx (Querier).
func NewAlarmLogRepository(q Querier) *AlarmLogRepo {
	return &AlarmLogRepo{q: q}
}

// DeleteDuplicates removes alarm rows repeating the same
// (power_unit_id, timestamp_local, abbrev, value), keeping the earliest
// inserted copy. One statement, atomic.
func (r *AlarmLogRepo) DeleteDuplicates(ctx context.Context) (int64, error) {
	const query = `
		DELETE FROM public.alarm_log
		WHERE id IN (
			SELECT id FROM (
				SELECT id,
					ROW_NUMBER() OVER (
						PARTITION BY power_unit_id, timestamp_local, abbrev, value
						ORDER BY timestamp_utc_inserted, id
					) AS row_num
				FROM public.alarm_log
			) t
			WHERE t.row_num > 1
		)`

	tag, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete duplicate alarm rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

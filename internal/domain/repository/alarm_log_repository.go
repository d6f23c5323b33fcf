package repository

import "context"

// AlarmLogRepository maintains the alarm_log table.
type AlarmLogRepository interface {
	// DeleteDuplicates removes duplicated alarm rows, keeping the earliest
	// inserted copy of each, and returns how many rows were deleted.
	DeleteDuplicates(ctx context.Context) (int64, error)
}

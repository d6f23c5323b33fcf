package alarmlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijack-technologies/postgresql-scheduler/internal/application/alarmlog"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

type fakeAlarmLogRepo struct {
	deleted int64
	err     error
}

func (f *fakeAlarmLogRepo) DeleteDuplicates(context.Context) (int64, error) {
	return f.deleted, f.err
}

func TestRun_ReportsDeletedRows(t *testing.T) {
	d := alarmlog.NewDeduper(&fakeAlarmLogRepo{deleted: 1234}, logger.FromZerolog(zerolog.Nop()))
	n, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1234), n)
}

func TestRun_WrapsRepositoryError(t *testing.T) {
	d := alarmlog.NewDeduper(&fakeAlarmLogRepo{err: errors.New("timeout")}, logger.FromZerolog(zerolog.Nop()))
	_, err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete duplicate alarms")
}

package repository

import (
	"context"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
)

// BulkAlertRepository reads the alerts_bulk subscriptions. The scheduler never
// writes them; they are configuration owned by the web app.
type BulkAlertRepository interface {
	ListAll(ctx context.Context) ([]*entity.BulkAlert, error)
}

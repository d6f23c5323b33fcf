package postgres

import (
	"context"
	"fmt"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.BulkAlertRepository = (*BulkAlertRepo)(nil)

// BulkAlertRepo implements BulkAlertRepository over PostgreSQL.
type BulkAlertRepo struct {
	q Querier
}

// NewBulkAlertRepository builds the adapter. Pass a pool or tx (Querier).
func NewBulkAlertRepository(q Querier) *BulkAlertRepo {
	return &BulkAlertRepo{q: q}
}

// ListAll reads every bulk subscription, oldest first for stable run order.
func (r *BulkAlertRepo) ListAll(ctx context.Context) ([]*entity.BulkAlert, error) {
	const query = `
		SELECT id, user_id, unit_type_id, model_type_id, customer_id,
			update_existing_alerts,
			wants_sms, wants_email, wants_phone, wants_whatsapp,
			heartbeat, online_hb, warn1, warn2,
			suction, discharge, hyd_temp, pwr_fail,
			created_at
		FROM public.alerts_bulk
		ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bulk alerts: %w", err)
	}
	defer rows.Close()

	var subs []*entity.BulkAlert
	for rows.Next() {
		var b entity.BulkAlert
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UnitTypeID, &b.ModelTypeID, &b.CustomerID,
			&b.UpdateExisting,
			&b.WantsSMS, &b.WantsEmail, &b.WantsPhone, &b.WantsWhatsApp,
			&b.Heartbeat, &b.OnlineHB, &b.Warn1, &b.Warn2,
			&b.Suction, &b.Discharge, &b.HydTemp, &b.PwrFail,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bulk alert: %w", err)
		}
		subs = append(subs, &b)
	}
	return subs, rows.Err()
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implements AlertRepository over PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository builds the adapter. Pass a pool or tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// alertColumns in insert order; alertColumnCount must match.
const (
	alertColumns = `user_id, power_unit_id, timestamp_utc_inserted,
			wants_sms, wants_email, wants_phone, wants_whatsapp,
			heartbeat, online_hb, warn1, warn2,
			suction, discharge, hyd_temp, pwr_fail`
	alertColumnCount = 15
)

// UpsertBatch writes one alert per power unit in a single multi-row statement.
//
// With updateExisting true it is ON CONFLICT DO UPDATE: existing rows get the
// subscription's current settings, and RETURNING (xmax = 0) tells inserts and
// updates apart. With updateExisting false it is ON CONFLICT DO NOTHING: rows
// that already exist (a concurrent writer can create them between match and
// write) are skipped, never treated as errors.
func (r *AlertRepo) UpsertBatch(ctx context.Context, sub *entity.BulkAlert, powerUnitIDs []int64, updateExisting bool) (repository.UpsertResult, error) {
	var res repository.UpsertResult
	if len(powerUnitIDs) == 0 {
		return res, nil
	}

	values, args := buildAlertValues(sub, powerUnitIDs)

	if updateExisting {
		query := fmt.Sprintf(`
			INSERT INTO public.alerts (%s)
			VALUES %s
			ON CONFLICT (user_id, power_unit_id) DO UPDATE SET
				wants_sms = EXCLUDED.wants_sms,
				wants_email = EXCLUDED.wants_email,
				wants_phone = EXCLUDED.wants_phone,
				wants_whatsapp = EXCLUDED.wants_whatsapp,
				heartbeat = EXCLUDED.heartbeat,
				online_hb = EXCLUDED.online_hb,
				warn1 = EXCLUDED.warn1,
				warn2 = EXCLUDED.warn2,
				suction = EXCLUDED.suction,
				discharge = EXCLUDED.discharge,
				hyd_temp = EXCLUDED.hyd_temp,
				pwr_fail = EXCLUDED.pwr_fail
			RETURNING (xmax = 0) AS inserted`, alertColumns, values)

		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			return res, fmt.Errorf("upsert alerts batch: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var inserted bool
			if err := rows.Scan(&inserted); err != nil {
				return res, fmt.Errorf("scan upsert result: %w", err)
			}
			if inserted {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return res, rows.Err()
	}

	query := fmt.Sprintf(`
		INSERT INTO public.alerts (%s)
		VALUES %s
		ON CONFLICT (user_id, power_unit_id) DO NOTHING
		RETURNING power_unit_id`, alertColumns, values)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent writer; the rows exist already.
			return repository.UpsertResult{Skipped: len(powerUnitIDs)}, nil
		}
		return res, fmt.Errorf("insert alerts batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return res, fmt.Errorf("scan insert result: %w", err)
		}
		res.Created++
	}
	if err := rows.Err(); err != nil {
		return res, err
	}
	res.Skipped = len(powerUnitIDs) - res.Created
	return res, nil
}

// buildAlertValues renders the multi-row VALUES clause and its arguments, one
// row of alertColumnCount placeholders per power unit.
func buildAlertValues(sub *entity.BulkAlert, powerUnitIDs []int64) (string, []any) {
	now := time.Now().UTC()

	var sb strings.Builder
	args := make([]any, 0, len(powerUnitIDs)*alertColumnCount)
	for i, unitID := range powerUnitIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		base := i * alertColumnCount
		for j := 0; j < alertColumnCount; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j+1)
		}
		sb.WriteByte(')')

		args = append(args,
			sub.UserID, unitID, now,
			sub.WantsSMS, sub.WantsEmail, sub.WantsPhone, sub.WantsWhatsApp,
			sub.Heartbeat, sub.OnlineHB, sub.Warn1, sub.Warn2,
			sub.Suction, sub.Discharge, sub.HydTemp, sub.PwrFail,
		)
	}
	return sb.String(), args
}

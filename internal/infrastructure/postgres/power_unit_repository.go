package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.PowerUnitRepository = (*PowerUnitRepo)(nil)

// PowerUnitRepo implements PowerUnitRepository over PostgreSQL. Pass a pool or
// tx (Querier).
type PowerUnitRepo struct {
	q Querier
}

// NewPowerUnitRepository builds the matcher adapter.
func NewPowerUnitRepository(q Querier) *PowerUnitRepo {
	return &PowerUnitRepo{q: q}
}

// MatchIDs resolves the subscription filter against the live fleet.
func (r *PowerUnitRepo) MatchIDs(ctx context.Context, filter repository.UnitFilter, excludedCustomers []int64, excludeAlertsForUser *int64) ([]int64, error) {
	query, args := buildMatchQuery(filter, excludedCustomers, excludeAlertsForUser)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("match power units: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan power unit id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// buildMatchQuery assembles the eligibility join plus the subscription's
// equality constraints.
//
// The base predicate keeps only fully commissioned units: structure, power
// unit, gateway, unit type, model, install date and surface all present, and
// a real customer attached. Filter fields that are nil add no condition, so
// an all-nil filter is the wildcard path matching the whole eligible fleet.
func buildMatchQuery(filter repository.UnitFilter, excludedCustomers []int64, excludeAlertsForUser *int64) (string, []any) {
	conds := []string{
		"t1.power_unit_id IS NOT NULL",
		"t1.id IS NOT NULL",
		"t3.id IS NOT NULL",
		"t1.unit_type_id IS NOT NULL",
		"t1.model_type_id IS NOT NULL",
		"t1.structure_install_date IS NOT NULL",
		"t1.surface IS NOT NULL",
		"t4.customer_id IS NOT NULL",
	}
	var args []any

	if len(excludedCustomers) > 0 {
		args = append(args, excludedCustomers)
		conds = append(conds, fmt.Sprintf("NOT (t4.customer_id = ANY($%d))", len(args)))
	}

	if filter.UnitTypeID != nil {
		args = append(args, *filter.UnitTypeID)
		conds = append(conds, fmt.Sprintf("t1.unit_type_id = $%d", len(args)))
	}
	if filter.ModelTypeID != nil {
		args = append(args, *filter.ModelTypeID)
		conds = append(conds, fmt.Sprintf("t1.model_type_id = $%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conds = append(conds, fmt.Sprintf("t4.customer_id = $%d", len(args)))
	}

	if excludeAlertsForUser != nil {
		args = append(args, *excludeAlertsForUser)
		conds = append(conds, fmt.Sprintf(
			"t1.power_unit_id NOT IN (SELECT power_unit_id FROM public.alerts WHERE user_id = $%d)", len(args)))
	}

	query := `
		SELECT DISTINCT t1.power_unit_id
		FROM public.structures t1
		LEFT JOIN public.power_units t2 ON t2.id = t1.power_unit_id
		LEFT JOIN public.gw t3 ON t3.power_unit_id = t2.id
		LEFT JOIN public.structure_customer_rel t4 ON t4.structure_id = t1.id
		WHERE ` + strings.Join(conds, "\n\t\t\tAND ")

	return query, args
}

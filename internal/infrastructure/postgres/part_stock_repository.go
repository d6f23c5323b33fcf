package postgres

import (
	"context"
	"fmt"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.PartStockRepository = (*PartStockRepo)(nil)

// PartStockRepo implements PartStockRepository over PostgreSQL. Consolidation
// binds it to a transaction via TxRunner; reads lock the rows they return.
type PartStockRepo struct {
	q Querier
}

// NewPartStockRepository builds the adapter. Pass a pool or tx (Querier).
func NewPartStockRepository(q Querier) *PartStockRepo {
	return &PartStockRepo{q: q}
}

// ListForUpdate returns and locks every stock row for the given part ids.
func (r *PartStockRepo) ListForUpdate(ctx context.Context, partIDs []int64) ([]*entity.PartStock, error) {
	const query = `
		SELECT part_id, warehouse_id,
			qty, qty_reserved, qty_desired,
			avg_cost, last_cost,
			min_stock, max_stock, reorder_point, reorder_qty, safety_stock,
			lead_time, avg_daily_usage, cycle_count_freq,
			updated_at
		FROM public.warehouses_parts_rel
		WHERE part_id = ANY($1)
		FOR UPDATE`

	rows, err := r.q.Query(ctx, query, partIDs)
	if err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}
	defer rows.Close()

	var stocks []*entity.PartStock
	for rows.Next() {
		var s entity.PartStock
		if err := rows.Scan(
			&s.PartID, &s.WarehouseID,
			&s.Qty, &s.QtyReserved, &s.QtyDesired,
			&s.AvgCost, &s.LastCost,
			&s.MinStock, &s.MaxStock, &s.ReorderPoint, &s.ReorderQty, &s.SafetyStock,
			&s.LeadTime, &s.AvgDailyUsage, &s.CycleCountFreq,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		stocks = append(stocks, &s)
	}
	return stocks, rows.Err()
}

// Accumulate adds the transfer's quantities onto the (part, warehouse) row,
// creating it when absent. Quantities accumulate on conflict — the existing
// value is never overwritten — while the stocking config, when present,
// replaces the target's.
func (r *PartStockRepo) Accumulate(ctx context.Context, t repository.StockTransfer) error {
	if t.Config != nil {
		const query = `
			INSERT INTO public.warehouses_parts_rel
				(part_id, warehouse_id, qty, qty_reserved, qty_desired,
				min_stock, max_stock, reorder_point, reorder_qty, safety_stock,
				lead_time, avg_daily_usage, cycle_count_freq, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
			ON CONFLICT (part_id, warehouse_id) DO UPDATE SET
				qty = warehouses_parts_rel.qty + EXCLUDED.qty,
				qty_reserved = warehouses_parts_rel.qty_reserved + EXCLUDED.qty_reserved,
				qty_desired = warehouses_parts_rel.qty_desired + EXCLUDED.qty_desired,
				min_stock = EXCLUDED.min_stock,
				max_stock = EXCLUDED.max_stock,
				reorder_point = EXCLUDED.reorder_point,
				reorder_qty = EXCLUDED.reorder_qty,
				safety_stock = EXCLUDED.safety_stock,
				lead_time = EXCLUDED.lead_time,
				avg_daily_usage = EXCLUDED.avg_daily_usage,
				cycle_count_freq = EXCLUDED.cycle_count_freq,
				updated_at = now()`
		cfg := t.Config
		_, err := r.q.Exec(ctx, query,
			t.PartID, t.WarehouseID, t.Qty, t.QtyReserved, t.QtyDesired,
			cfg.MinStock, cfg.MaxStock, cfg.ReorderPoint, cfg.ReorderQty, cfg.SafetyStock,
			cfg.LeadTime, cfg.AvgDailyUsage, cfg.CycleCountFreq,
		)
		if err != nil {
			return fmt.Errorf("accumulate stock: %w", err)
		}
		return nil
	}

	const query = `
		INSERT INTO public.warehouses_parts_rel
			(part_id, warehouse_id, qty, qty_reserved, qty_desired, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (part_id, warehouse_id) DO UPDATE SET
			qty = warehouses_parts_rel.qty + EXCLUDED.qty,
			qty_reserved = warehouses_parts_rel.qty_reserved + EXCLUDED.qty_reserved,
			qty_desired = warehouses_parts_rel.qty_desired + EXCLUDED.qty_desired,
			updated_at = now()`
	_, err := r.q.Exec(ctx, query, t.PartID, t.WarehouseID, t.Qty, t.QtyReserved, t.QtyDesired)
	if err != nil {
		return fmt.Errorf("accumulate stock: %w", err)
	}
	return nil
}

// ZeroQuantities zeroes the three quantity fields on the given rows in one
// statement. Rows are never deleted; a zero row records that the quantities
// are known, not unknown.
func (r *PartStockRepo) ZeroQuantities(ctx context.Context, keys []repository.StockKey) error {
	if len(keys) == 0 {
		return nil
	}

	partIDs := make([]int64, len(keys))
	warehouseIDs := make([]int64, len(keys))
	for i, k := range keys {
		partIDs[i] = k.PartID
		warehouseIDs[i] = k.WarehouseID
	}

	const query = `
		UPDATE public.warehouses_parts_rel s
		SET qty = 0, qty_reserved = 0, qty_desired = 0, updated_at = now()
		FROM unnest($1::bigint[], $2::bigint[]) AS k(part_id, warehouse_id)
		WHERE s.part_id = k.part_id AND s.warehouse_id = k.warehouse_id`

	if _, err := r.q.Exec(ctx, query, partIDs, warehouseIDs); err != nil {
		return fmt.Errorf("zero stock rows: %w", err)
	}
	return nil
}

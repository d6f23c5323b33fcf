package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
)

// StockKey identifies one warehouses_parts_rel row.
type StockKey struct {
	PartID      int64
	WarehouseID int64
}

// StockTransfer accumulates quantity deltas onto the latest revision's row at
// one warehouse, creating the row when absent. Config, when non-nil, carries
// the stocking tuning copied from the previous latest revision; quantities
// are always added to whatever the row already holds, never overwritten.
type StockTransfer struct {
	PartID      int64
	WarehouseID int64

	Qty         decimal.Decimal
	QtyReserved decimal.Decimal
	QtyDesired  decimal.Decimal

	Config *entity.StockingConfig
}

// PartStockRepository reads and mutates warehouse stock rows. Implementations
// are usable against a pool or bound to a transaction; consolidation always
// runs the three methods inside one transaction per family.
type PartStockRepository interface {
	// ListForUpdate returns every stock row for the given part ids, locking
	// them (SELECT FOR UPDATE) so a concurrent consolidator run on the same
	// family cannot double-count.
	ListForUpdate(ctx context.Context, partIDs []int64) ([]*entity.PartStock, error)

	// Accumulate applies one transfer as a conflict-safe upsert keyed on
	// (part_id, warehouse_id).
	Accumulate(ctx context.Context, t StockTransfer) error

	// ZeroQuantities sets qty, qty_reserved and qty_desired to zero on the
	// given rows. Rows are never deleted.
	ZeroQuantities(ctx context.Context, keys []StockKey) error
}

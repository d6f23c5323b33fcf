package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockingConfig is the operational tuning carried on a warehouse stock row.
// These fields are copied, never summed, when quantities migrate between part
// revisions.
type StockingConfig struct {
	MinStock       decimal.Decimal
	MaxStock       decimal.Decimal
	ReorderPoint   decimal.Decimal
	ReorderQty     decimal.Decimal
	SafetyStock    decimal.Decimal
	LeadTime       decimal.Decimal
	AvgDailyUsage  decimal.Decimal
	CycleCountFreq decimal.Decimal
}

// PartStock is one row of public.warehouses_parts_rel: the quantities a
// warehouse holds for one part revision. Absence of a row means "unknown",
// not zero; rows are created by bulk writes or ordinary app traffic and are
// zeroed but never deleted by the maintenance jobs.
type PartStock struct {
	PartID      int64
	WarehouseID int64

	Qty         decimal.Decimal
	QtyReserved decimal.Decimal
	QtyDesired  decimal.Decimal

	AvgCost  decimal.Decimal
	LastCost decimal.Decimal

	StockingConfig

	UpdatedAt time.Time
}

// HasQuantities reports whether any of the three quantity fields is non-zero.
func (s *PartStock) HasQuantities() bool {
	return !s.Qty.IsZero() || !s.QtyReserved.IsZero() || !s.QtyDesired.IsZero()
}

package inventory

import (
	"sort"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

// transferPlan is the set of writes consolidating one revision family: the
// quantity accumulations onto the latest revision plus the zeroing of the
// donor rows. It is built purely from rows read (and locked) inside the
// family's transaction, so the per-warehouse totals are fixed before any
// write happens and the sum over all revisions is preserved by construction.
type transferPlan struct {
	transfers []repository.StockTransfer
	zeroes    []repository.StockKey
}

func (p transferPlan) isEmpty() bool {
	return len(p.transfers) == 0 && len(p.zeroes) == 0
}

// buildTransferPlan computes the consolidation writes for one family.
//
// For every warehouse where an older revision holds stock, the three quantity
// fields are summed across the older rows and added onto the latest
// revision's row (created when absent). The stocking config travels from the
// highest-revision older row at that warehouse — the immediately-previous
// latest — so operational tuning survives the revision bump. Older rows are
// then zeroed.
//
// A warehouse whose older rows are already all-zero contributes nothing,
// which is what makes a completed consolidation re-runnable as a no-op.
func buildTransferPlan(family entity.RevisionFamily, stocks []*entity.PartStock) transferPlan {
	latest := family.Latest()

	olderRev := make(map[int64]int64, len(family.Revisions)-1)
	for _, r := range family.Older() {
		olderRev[r.PartID] = r.PartRev
	}

	olderByWarehouse := make(map[int64][]*entity.PartStock)
	for _, s := range stocks {
		if _, ok := olderRev[s.PartID]; ok {
			olderByWarehouse[s.WarehouseID] = append(olderByWarehouse[s.WarehouseID], s)
		}
	}

	warehouseIDs := make([]int64, 0, len(olderByWarehouse))
	for id := range olderByWarehouse {
		warehouseIDs = append(warehouseIDs, id)
	}
	sort.Slice(warehouseIDs, func(i, j int) bool { return warehouseIDs[i] < warehouseIDs[j] })

	var plan transferPlan
	for _, warehouseID := range warehouseIDs {
		donors := olderByWarehouse[warehouseID]

		transfer := repository.StockTransfer{
			PartID:      latest.PartID,
			WarehouseID: warehouseID,
		}
		var donor *entity.PartStock
		var anyStock bool
		for _, s := range donors {
			transfer.Qty = transfer.Qty.Add(s.Qty)
			transfer.QtyReserved = transfer.QtyReserved.Add(s.QtyReserved)
			transfer.QtyDesired = transfer.QtyDesired.Add(s.QtyDesired)
			if s.HasQuantities() {
				anyStock = true
				plan.zeroes = append(plan.zeroes, repository.StockKey{PartID: s.PartID, WarehouseID: s.WarehouseID})
			}
			// Config donor: the older row with the highest revision.
			if donor == nil || olderRev[s.PartID] >= olderRev[donor.PartID] {
				donor = s
			}
		}
		if !anyStock {
			// Already consolidated at this warehouse.
			continue
		}

		cfg := donor.StockingConfig
		transfer.Config = &cfg
		plan.transfers = append(plan.transfers, transfer)
	}
	return plan
}

package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijack-technologies/postgresql-scheduler/internal/application/inventory"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: an in-memory warehouses_parts_rel table with upsert-accumulate and
// zeroing semantics, plus a transaction runner with rollback-on-error.
// ──────────────────────────────────────────────────────────────────────────────

type stockStore struct {
	rows map[repository.StockKey]*entity.PartStock

	failAccumulateFor int64 // part id whose Accumulate fails; 0 disables
}

func newStockStore() *stockStore {
	return &stockStore{rows: make(map[repository.StockKey]*entity.PartStock)}
}

func (s *stockStore) put(partID, warehouseID int64, qty float64) {
	key := repository.StockKey{PartID: partID, WarehouseID: warehouseID}
	s.rows[key] = &entity.PartStock{
		PartID:      partID,
		WarehouseID: warehouseID,
		Qty:         decimal.NewFromFloat(qty),
	}
}

func (s *stockStore) total(warehouseID int64) decimal.Decimal {
	var sum decimal.Decimal
	for _, row := range s.rows {
		if row.WarehouseID == warehouseID {
			sum = sum.Add(row.Qty)
		}
	}
	return sum
}

func (s *stockStore) ListForUpdate(_ context.Context, partIDs []int64) ([]*entity.PartStock, error) {
	wanted := make(map[int64]bool, len(partIDs))
	for _, id := range partIDs {
		wanted[id] = true
	}
	var out []*entity.PartStock
	for _, row := range s.rows {
		if wanted[row.PartID] {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stockStore) Accumulate(_ context.Context, t repository.StockTransfer) error {
	if s.failAccumulateFor != 0 && t.PartID == s.failAccumulateFor {
		return errors.New("deadlock detected")
	}
	key := repository.StockKey{PartID: t.PartID, WarehouseID: t.WarehouseID}
	row, ok := s.rows[key]
	if !ok {
		row = &entity.PartStock{PartID: t.PartID, WarehouseID: t.WarehouseID}
		s.rows[key] = row
	}
	row.Qty = row.Qty.Add(t.Qty)
	row.QtyReserved = row.QtyReserved.Add(t.QtyReserved)
	row.QtyDesired = row.QtyDesired.Add(t.QtyDesired)
	if t.Config != nil {
		row.StockingConfig = *t.Config
	}
	return nil
}

func (s *stockStore) ZeroQuantities(_ context.Context, keys []repository.StockKey) error {
	for _, k := range keys {
		if row, ok := s.rows[k]; ok {
			row.Qty = decimal.Zero
			row.QtyReserved = decimal.Zero
			row.QtyDesired = decimal.Zero
		}
	}
	return nil
}

// fakeTxRunner snapshots the store before fn and restores it when fn fails,
// mirroring a real transaction's rollback.
type fakeTxRunner struct {
	store *stockStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.PartStockRepository) error) error {
	snapshot := make(map[repository.StockKey]*entity.PartStock, len(r.store.rows))
	for k, v := range r.store.rows {
		cp := *v
		snapshot[k] = &cp
	}
	if err := fn(r.store); err != nil {
		r.store.rows = snapshot
		return err
	}
	return nil
}

type fakePartRepo struct {
	families []entity.RevisionFamily
	err      error
}

func (f *fakePartRepo) ListRevisionFamilies(context.Context) ([]entity.RevisionFamily, error) {
	return f.families, f.err
}

func nopLogger() *logger.Logger {
	return logger.FromZerolog(zerolog.Nop())
}

func twoRevFamily(name string, oldID, newID int64) entity.RevisionFamily {
	return entity.RevisionFamily{
		Name: name,
		Revisions: []entity.PartRevision{
			{PartID: oldID, PartName: name, PartRev: 0},
			{PartID: newID, PartName: name, PartRev: 1},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestConsolidate_MovesStockAndReportsCounts(t *testing.T) {
	store := newStockStore()
	store.put(100, 1, 3)
	store.put(100, 2, 7)
	store.put(101, 1, 10)

	c := inventory.NewConsolidator(
		&fakePartRepo{families: []entity.RevisionFamily{twoRevFamily("PUMP-7X", 100, 101)}},
		&fakeTxRunner{store: store},
		0,
		nopLogger(),
	)

	stats, err := c.Consolidate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FamiliesProcessed)
	assert.Equal(t, 0, stats.FamiliesFailed)
	assert.Equal(t, 2, stats.TransfersApplied) // one per warehouse

	assert.True(t, store.rows[repository.StockKey{PartID: 101, WarehouseID: 1}].Qty.Equal(decimal.NewFromInt(13)))
	assert.True(t, store.rows[repository.StockKey{PartID: 101, WarehouseID: 2}].Qty.Equal(decimal.NewFromInt(7)))
	assert.True(t, store.rows[repository.StockKey{PartID: 100, WarehouseID: 1}].Qty.IsZero())
	assert.True(t, store.rows[repository.StockKey{PartID: 100, WarehouseID: 2}].Qty.IsZero())
}

func TestConsolidate_FamilyFailureIsIsolatedAndRolledBack(t *testing.T) {
	store := newStockStore()
	store.put(100, 1, 3) // family A, fails
	store.put(200, 1, 4) // family B, succeeds

	store.failAccumulateFor = 101
	totalBefore := store.total(1)

	c := inventory.NewConsolidator(
		&fakePartRepo{families: []entity.RevisionFamily{
			twoRevFamily("PUMP-7X", 100, 101),
			twoRevFamily("VALVE-2", 200, 201),
		}},
		&fakeTxRunner{store: store},
		0,
		nopLogger(),
	)

	stats, err := c.Consolidate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FamiliesProcessed)
	assert.Equal(t, 1, stats.FamiliesFailed)
	assert.Equal(t, 1, stats.TransfersApplied)

	// Failed family rolled back intact: quantities conserved, donor untouched.
	assert.True(t, store.total(1).Equal(totalBefore))
	assert.True(t, store.rows[repository.StockKey{PartID: 100, WarehouseID: 1}].Qty.Equal(decimal.NewFromInt(3)))

	// Succeeding family committed.
	assert.True(t, store.rows[repository.StockKey{PartID: 201, WarehouseID: 1}].Qty.Equal(decimal.NewFromInt(4)))
}

func TestConsolidate_SecondRunIsNoOp(t *testing.T) {
	store := newStockStore()
	store.put(100, 1, 3)

	c := inventory.NewConsolidator(
		&fakePartRepo{families: []entity.RevisionFamily{twoRevFamily("PUMP-7X", 100, 101)}},
		&fakeTxRunner{store: store},
		0,
		nopLogger(),
	)

	_, err := c.Consolidate(context.Background())
	require.NoError(t, err)

	stats, err := c.Consolidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FamiliesProcessed)
	assert.Equal(t, 0, stats.TransfersApplied, "already-consolidated family plans no transfers")
}

func TestConsolidate_ListFailureIsFatal(t *testing.T) {
	c := inventory.NewConsolidator(
		&fakePartRepo{err: errors.New("connection refused")},
		&fakeTxRunner{store: newStockStore()},
		0,
		nopLogger(),
	)
	_, err := c.Consolidate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list revision families")
}

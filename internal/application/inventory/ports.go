package inventory

import (
	"context"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction, passing a stock repository
// bound to that transaction. Each family consolidation is one such unit:
// either all of its transfers and zeroings commit, or none do.
type TxRunner interface {
	Run(ctx context.Context, fn func(stockRepo repository.PartStockRepository) error) error
}

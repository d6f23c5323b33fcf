package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.ViewRepository = (*ViewRepo)(nil)

// ViewRepo implements ViewRepository over PostgreSQL.
type ViewRepo struct {
	q Querier
}

// NewViewRepository builds the adapter. Pass a pool or tx (Querier).
func NewViewRepository(q Querier) *ViewRepo {
	return &ViewRepo{q: q}
}

// RefreshMaterialized refreshes one materialized view without blocking
// readers. Identifiers cannot be bound as parameters, so the name is
// sanitized instead.
func (r *ViewRepo) RefreshMaterialized(ctx context.Context, name string) error {
	query := "REFRESH MATERIALIZED VIEW CONCURRENTLY " + pgx.Identifier{name}.Sanitize()
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("refresh materialized view %s: %w", name, err)
	}
	return nil
}

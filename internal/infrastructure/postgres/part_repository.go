package postgres

import (
	"context"
	"fmt"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implements PartRepository over PostgreSQL.
type PartRepo struct {
	q Querier
}

// NewPartRepository builds the adapter. Pass a pool or tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

// ListRevisionFamilies groups active parts by name and keeps only families
// with more than one revision. Grouping happens here rather than in SQL so
// the family carries every revision's id for locking.
func (r *PartRepo) ListRevisionFamilies(ctx context.Context) ([]entity.RevisionFamily, error) {
	const query = `
		SELECT t1.id, t1.part_name, t1.part_rev
		FROM public.parts t1
		WHERE t1.active
		ORDER BY t1.part_name, t1.part_rev`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list part revisions: %w", err)
	}
	defer rows.Close()

	byName := make(map[string][]entity.PartRevision)
	var names []string
	for rows.Next() {
		var rev entity.PartRevision
		if err := rows.Scan(&rev.PartID, &rev.PartName, &rev.PartRev); err != nil {
			return nil, fmt.Errorf("scan part revision: %w", err)
		}
		if _, seen := byName[rev.PartName]; !seen {
			names = append(names, rev.PartName)
		}
		byName[rev.PartName] = append(byName[rev.PartName], rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var families []entity.RevisionFamily
	for _, name := range names {
		revs := byName[name]
		if len(revs) < 2 {
			continue
		}
		families = append(families, entity.RevisionFamily{Name: name, Revisions: revs})
	}
	return families, nil
}

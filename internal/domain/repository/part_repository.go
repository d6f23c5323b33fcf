package repository

import (
	"context"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/entity"
)

// PartRepository reads the parts table for revision consolidation.
type PartRepository interface {
	// ListRevisionFamilies groups active parts by part name and returns only
	// the families holding more than one revision — the ones with anything to
	// consolidate.
	ListRevisionFamilies(ctx context.Context) ([]entity.RevisionFamily, error)
}

package views

import (
	"context"
	"fmt"
	"time"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain"
	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
	"github.com/ijack-technologies/postgresql-scheduler/pkg/logger"
)

const defaultUnitTimeout = 10 * time.Minute

// Stats aggregates one refresh run.
type Stats struct {
	Refreshed int
	Failed    int
}

// Refresher refreshes the configured materialized views. Views refresh
// independently; one failing view never blocks the rest.
type Refresher struct {
	repo        repository.ViewRepository
	views       []string
	unitTimeout time.Duration
	log         *logger.Logger
}

// NewRefresher builds the refresh job. A non-positive unitTimeout falls back
// to a budget sized for the slow time-series views.
func NewRefresher(repo repository.ViewRepository, views []string, unitTimeout time.Duration, log *logger.Logger) *Refresher {
	if unitTimeout <= 0 {
		unitTimeout = defaultUnitTimeout
	}
	return &Refresher{repo: repo, views: views, unitTimeout: unitTimeout, log: log}
}

// RefreshAll refreshes each view in order and reports the split. It returns
// an error only when no views are configured at all.
func (r *Refresher) RefreshAll(ctx context.Context) (Stats, error) {
	var stats Stats
	if len(r.views) == 0 {
		return stats, fmt.Errorf("no materialized views configured: %w", domain.ErrInvalidInput)
	}

	for _, name := range r.views {
		start := time.Now()
		if err := r.refreshOne(ctx, name); err != nil {
			r.log.Error().Err(err).Str("view", name).Msg("materialized view refresh failed")
			stats.Failed++
			continue
		}
		r.log.Info().Str("view", name).Dur("elapsed", time.Since(start)).Msg("materialized view refreshed")
		stats.Refreshed++
	}
	return stats, nil
}

func (r *Refresher) refreshOne(ctx context.Context, name string) error {
	vctx, cancel := context.WithTimeout(ctx, r.unitTimeout)
	defer cancel()
	return r.repo.RefreshMaterialized(vctx, name)
}

package repository

import "context"

// ViewRepository refreshes derived views.
type ViewRepository interface {
	// RefreshMaterialized refreshes one materialized view concurrently, so
	// readers are not blocked while it rebuilds.
	RefreshMaterialized(ctx context.Context, name string) error
}

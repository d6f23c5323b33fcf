package repository

import "context"

// UnitFilter narrows fleet matching. nil fields are wildcards; a filter with
// every field nil matches the whole eligible fleet.
type UnitFilter struct {
	UnitTypeID  *int64
	ModelTypeID *int64
	CustomerID  *int64
}

// PowerUnitRepository resolves which power units are currently eligible for a
// bulk subscription (DIP port for the matcher).
type PowerUnitRepository interface {
	// MatchIDs returns the distinct ids of power units that pass the base
	// eligibility predicate (structure, gateway, unit type, model, install
	// date and surface all present; customer present and not excluded) plus
	// the filter's equality constraints. When excludeAlertsForUser is set,
	// units that already have an alert for that user are left out, which is
	// how create-only subscriptions avoid a second upsert pass.
	//
	// A filter value that matches nothing (e.g. an unknown customer id) is
	// not an error; it yields an empty result.
	MatchIDs(ctx context.Context, filter UnitFilter, excludedCustomers []int64, excludeAlertsForUser *int64) ([]int64, error)
}

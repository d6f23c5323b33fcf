package entity

import "time"

// BulkAlert is one alerts_bulk subscription: a filter over the fleet plus the
// alert settings to stamp on every matched power unit. Subscriptions are
// written by the web app; the scheduler only reads them.
type BulkAlert struct {
	ID     int64
	UserID int64

	// Filter criteria. nil means "do not constrain on this field"; all three
	// nil is the wildcard subscription that follows the whole eligible fleet,
	// picking up newly commissioned units on the next run automatically.
	UnitTypeID  *int64
	ModelTypeID *int64
	CustomerID  *int64

	// UpdateExisting selects upsert semantics: true overwrites the mutable
	// fields of alerts that already exist, false only creates missing ones.
	UpdateExisting bool

	// Delivery preferences copied onto each alert.
	WantsSMS      bool
	WantsEmail    bool
	WantsPhone    bool
	WantsWhatsApp bool

	// Alert condition toggles copied onto each alert.
	Heartbeat bool
	OnlineHB  bool
	Warn1     bool
	Warn2     bool
	Suction   bool
	Discharge bool
	HydTemp   bool
	PwrFail   bool

	CreatedAt time.Time
}

// IsWildcard reports whether the subscription has no filter criteria at all.
func (b *BulkAlert) IsWildcard() bool {
	return b.UnitTypeID == nil && b.ModelTypeID == nil && b.CustomerID == nil
}

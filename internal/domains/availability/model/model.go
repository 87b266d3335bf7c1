package model

import (
	"time"

	"velvet/shared/model"
)

const (
	SlotTableName  = "companion_availability"
	SlotEntityName = "availability_slot"

	BlackoutTableName  = "companion_unavailable_days"
	BlackoutEntityName = "unavailable_day"

	FieldID          = "id"
	FieldCompanionID = "companion_id"
	FieldDate        = "date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldIsAvailable = "is_available"
	FieldNotes       = "notes"
	FieldReason      = "reason"
)

// AvailabilitySlot is a companion-entered one-off window on a specific date.
// Freshly created slots are unavailable until the companion toggles them on.
type AvailabilitySlot struct {
	ID          string    `db:"id"`
	CompanionID string    `db:"companion_id"`
	Date        time.Time `db:"date"`
	StartTime   string    `db:"start_time"`
	EndTime     string    `db:"end_time"`
	IsAvailable bool      `db:"is_available"`
	Notes       *string   `db:"notes"`
	model.Metadata
}

// UnavailableDay marks a whole date as blacked out for a companion.
type UnavailableDay struct {
	ID          string    `db:"id"`
	CompanionID string    `db:"companion_id"`
	Date        time.Time `db:"date"`
	Reason      *string   `db:"reason"`
	model.Metadata
}

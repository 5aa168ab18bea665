package reminders

import "time"

// Recurrence frequencies.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Reminder types.
const (
	TypeMaintenance = "maintenance"
	TypeWarranty    = "warranty"
	TypeInsurance   = "insurance"
	TypeOther       = "other"
)

// ValidType reports whether s is a known reminder type.
func ValidType(s string) bool {
	switch s {
	case TypeMaintenance, TypeWarranty, TypeInsurance, TypeOther:
		return true
	}
	return false
}

// ValidFrequency reports whether s is a known recurrence frequency.
func ValidFrequency(s string) bool {
	switch s {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// NextDueDate advances a due date by one recurrence interval.
func NextDueDate(due time.Time, frequency string) time.Time {
	switch frequency {
	case FrequencyMonthly:
		return due.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return due.AddDate(0, 3, 0)
	case FrequencyYearly:
		return due.AddDate(1, 0, 0)
	}
	return due
}

// Reminder is a maintenance task, optionally tied to an asset and optionally
// recurring. Completing a recurring reminder spawns an independent row for
// the next occurrence.
type Reminder struct {
	ID     int64
	UserID int64
	// AssetID links an asset; nil for standalone reminders. AssetName is
	// filled by list queries that join the assets table, never written.
	AssetID       *int64
	AssetName     string
	Title         string
	Description   string
	DueDate       time.Time
	Type          string
	Recurring     bool
	Frequency     string
	Completed     bool
	CompletedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Update carries the fields of a partial update; nil means "not supplied".
type Update struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Type          *string
	Recurring     *bool
	Frequency     *string
	Completed     *bool
	CompletedDate *time.Time
	// ClearCompletedDate nulls completed_date, used when a reminder is
	// reopened.
	ClearCompletedDate bool
}

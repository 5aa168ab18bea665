package reminders

import (
	"context"
	"time"
)

// Repo defines persistence operations for reminders. Every query is scoped
// to the owning user.
type Repo interface {
	Create(ctx context.Context, reminder Reminder) (Reminder, error)
	GetByID(ctx context.Context, userID, reminderID int64) (Reminder, error)
	ListByUser(ctx context.Context, userID int64) ([]Reminder, error)
	// ListUpcoming returns open reminders due on or before the horizon,
	// soonest first.
	ListUpcoming(ctx context.Context, userID int64, horizon time.Time) ([]Reminder, error)
	Update(ctx context.Context, userID, reminderID int64, upd Update) (Reminder, error)
	Delete(ctx context.Context, userID, reminderID int64) error
	// AssetOwned reports whether the asset exists and belongs to the user.
	AssetOwned(ctx context.Context, userID, assetID int64) (bool, error)
}

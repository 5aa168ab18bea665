package reminders

import (
	"context"
	"strings"
	"time"

	"assettracker-backend/internal/shared/telemetry"
	"assettracker-backend/internal/shared/util"
)

// UpcomingWindow is how far ahead the upcoming view looks.
const UpcomingWindow = 7 * 24 * time.Hour

// Service contains business logic for reminders.
type Service struct {
	Repo Repo

	// Now is a clock hook for tests; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns every reminder owned by the user.
func (s *Service) List(ctx context.Context, userID int64) ([]Reminder, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Upcoming returns open reminders due within the next seven days.
func (s *Service) Upcoming(ctx context.Context, userID int64) ([]Reminder, error) {
	return s.Repo.ListUpcoming(ctx, userID, s.now().Add(UpcomingWindow))
}

// Get returns one reminder scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, reminderID int64) (Reminder, error) {
	return s.Repo.GetByID(ctx, userID, reminderID)
}

// Create validates the payload, verifies asset ownership when a link is
// requested, and inserts the reminder.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (Reminder, error) {
	reminder, err := validateCreate(req)
	if err != nil {
		return Reminder{}, err
	}
	reminder.UserID = userID

	if reminder.AssetID != nil {
		owned, err := s.Repo.AssetOwned(ctx, userID, *reminder.AssetID)
		if err != nil {
			return Reminder{}, err
		}
		if !owned {
			return Reminder{}, ErrAssetNotFound
		}
	}
	return s.Repo.Create(ctx, reminder)
}

// Update validates only the supplied fields and applies a partial update.
// Marking a reminder complete without a date stamps today; reopening clears
// the stamp.
func (s *Service) Update(ctx context.Context, userID, reminderID int64, req UpdateRequest) (Reminder, error) {
	upd, err := s.validateUpdate(req)
	if err != nil {
		return Reminder{}, err
	}
	return s.Repo.Update(ctx, userID, reminderID, upd)
}

// CompleteResult reports a completion and, for recurring reminders, the next
// occurrence that was spawned.
type CompleteResult struct {
	Completed Reminder
	Next      *Reminder
}

// Complete marks the reminder done and, when it recurs, inserts an
// independent row for the next occurrence.
func (s *Service) Complete(ctx context.Context, userID, reminderID int64) (CompleteResult, error) {
	reminder, err := s.Repo.GetByID(ctx, userID, reminderID)
	if err != nil {
		return CompleteResult{}, err
	}

	completed := true
	stamp := s.now()
	completedReminder, err := s.Repo.Update(ctx, userID, reminderID, Update{
		Completed:     &completed,
		CompletedDate: &stamp,
	})
	if err != nil {
		return CompleteResult{}, err
	}

	result := CompleteResult{Completed: completedReminder}
	if reminder.Recurring && ValidFrequency(reminder.Frequency) {
		next, err := s.Repo.Create(ctx, Reminder{
			UserID:      userID,
			AssetID:     reminder.AssetID,
			Title:       reminder.Title,
			Description: reminder.Description,
			DueDate:     NextDueDate(reminder.DueDate, reminder.Frequency),
			Type:        reminder.Type,
			Recurring:   true,
			Frequency:   reminder.Frequency,
		})
		if err != nil {
			return CompleteResult{}, err
		}
		result.Next = &next
		telemetry.Info("reminder.recurred", map[string]any{
			"reminder_id": reminderID,
			"next_id":     next.ID,
			"next_due":    util.FormatDate(next.DueDate),
		})
	}
	return result, nil
}

// Delete removes one reminder.
func (s *Service) Delete(ctx context.Context, userID, reminderID int64) error {
	return s.Repo.Delete(ctx, userID, reminderID)
}

func validateCreate(req CreateRequest) (Reminder, error) {
	var reminder Reminder

	reminder.Title = strings.TrimSpace(req.Title)
	if reminder.Title == "" {
		return Reminder{}, invalidField("title", "is required")
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return Reminder{}, invalidField("dueDate", "is required")
	}
	due, err := util.ParseDate(req.DueDate)
	if err != nil {
		return Reminder{}, invalidField("dueDate", err.Error())
	}
	reminder.DueDate = due
	reminder.Description = strings.TrimSpace(req.Description)

	reminder.Type = strings.TrimSpace(req.Type)
	if reminder.Type == "" {
		reminder.Type = TypeOther
	}
	if !ValidType(reminder.Type) {
		return Reminder{}, invalidField("type", "must be one of maintenance, warranty, insurance, other")
	}

	reminder.Recurring = req.Recurring
	reminder.Frequency = strings.TrimSpace(req.Frequency)

	if reminder.Recurring {
		if reminder.Frequency == "" {
			return Reminder{}, invalidField("frequency", "is required for recurring reminders")
		}
		if !ValidFrequency(reminder.Frequency) {
			return Reminder{}, invalidField("frequency", "must be one of monthly, quarterly, yearly")
		}
	} else if reminder.Frequency != "" && !ValidFrequency(reminder.Frequency) {
		return Reminder{}, invalidField("frequency", "must be one of monthly, quarterly, yearly")
	}

	if req.AssetID != nil {
		if *req.AssetID <= 0 {
			return Reminder{}, invalidField("assetId", "must be a positive integer")
		}
		reminder.AssetID = req.AssetID
	}
	return reminder, nil
}

func (s *Service) validateUpdate(req UpdateRequest) (Update, error) {
	var upd Update
	fields := 0

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return Update{}, invalidField("title", "must not be empty")
		}
		upd.Title = &title
		fields++
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		upd.Description = &desc
		fields++
	}
	if req.DueDate != nil {
		due, err := util.ParseDate(*req.DueDate)
		if err != nil {
			return Update{}, invalidField("dueDate", err.Error())
		}
		upd.DueDate = &due
		fields++
	}
	if req.Type != nil {
		typ := strings.TrimSpace(*req.Type)
		if !ValidType(typ) {
			return Update{}, invalidField("type", "must be one of maintenance, warranty, insurance, other")
		}
		upd.Type = &typ
		fields++
	}
	if req.Recurring != nil {
		upd.Recurring = req.Recurring
		fields++
	}
	if req.Frequency != nil {
		frequency := strings.TrimSpace(*req.Frequency)
		if frequency != "" && !ValidFrequency(frequency) {
			return Update{}, invalidField("frequency", "must be one of monthly, quarterly, yearly")
		}
		upd.Frequency = &frequency
		fields++
	}
	if req.Completed != nil {
		upd.Completed = req.Completed
		fields++
		if *req.Completed {
			if req.CompletedDate != nil {
				stamp, err := util.ParseDate(*req.CompletedDate)
				if err != nil {
					return Update{}, invalidField("completedDate", err.Error())
				}
				upd.CompletedDate = &stamp
			} else {
				stamp := s.now()
				upd.CompletedDate = &stamp
			}
		} else {
			upd.ClearCompletedDate = true
		}
	} else if req.CompletedDate != nil {
		stamp, err := util.ParseDate(*req.CompletedDate)
		if err != nil {
			return Update{}, invalidField("completedDate", err.Error())
		}
		upd.CompletedDate = &stamp
		fields++
	}

	if fields == 0 {
		return Update{}, invalidField("payload", "no fields to update")
	}
	return upd, nil
}

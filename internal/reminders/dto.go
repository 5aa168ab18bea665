package reminders

import (
	"time"

	"assettracker-backend/internal/shared/util"
)

// CreateRequest is the inbound payload for reminder creation.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Type        string `json:"type"`
	Recurring   bool   `json:"recurring"`
	Frequency   string `json:"frequency"`
	AssetID     *int64 `json:"assetId"`
}

// UpdateRequest is the inbound payload for partial updates; absent fields
// keep their stored values.
type UpdateRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	DueDate       *string `json:"dueDate"`
	Type          *string `json:"type"`
	Recurring     *bool   `json:"recurring"`
	Frequency     *string `json:"frequency"`
	Completed     *bool   `json:"completed"`
	CompletedDate *string `json:"completedDate"`
}

// Response is the outward-facing representation of a reminder.
type Response struct {
	ID            int64     `json:"id"`
	AssetID       *int64    `json:"assetId,omitempty"`
	AssetName     string    `json:"assetName,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	DueDate       string    `json:"dueDate"`
	Type          string    `json:"type"`
	Recurring     bool      `json:"recurring"`
	Frequency     string    `json:"frequency,omitempty"`
	Completed     bool      `json:"completed"`
	CompletedDate *string   `json:"completedDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toResponse(reminder Reminder) Response {
	return Response{
		ID:            reminder.ID,
		AssetID:       reminder.AssetID,
		AssetName:     reminder.AssetName,
		Title:         reminder.Title,
		Description:   reminder.Description,
		DueDate:       util.FormatDate(reminder.DueDate),
		Type:          reminder.Type,
		Recurring:     reminder.Recurring,
		Frequency:     reminder.Frequency,
		Completed:     reminder.Completed,
		CompletedDate: util.FormatDatePtr(reminder.CompletedDate),
		CreatedAt:     reminder.CreatedAt,
		UpdatedAt:     reminder.UpdatedAt,
	}
}

func toResponses(items []Reminder) []Response {
	out := make([]Response, 0, len(items))
	for _, reminder := range items {
		out = append(out, toResponse(reminder))
	}
	return out
}

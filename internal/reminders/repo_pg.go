package reminders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	db "assettracker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const reminderColumns = `
id, user_id, asset_id, title, description, due_date, type, recurring,
frequency, completed, completed_date, created_at, updated_at`

// List queries join the asset name so clients can label reminders without a
// second fetch.
const reminderJoinColumns = `
r.id, r.user_id, r.asset_id, r.title, r.description, r.due_date, r.type,
r.recurring, r.frequency, r.completed, r.completed_date, r.created_at,
r.updated_at, a.name`

// Create inserts a new reminder and returns the stored row.
func (r *PGRepo) Create(ctx context.Context, reminder Reminder) (Reminder, error) {
	const query = `
INSERT INTO reminders (
    user_id, asset_id, title, description, due_date, type, recurring,
    frequency, completed, completed_date, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING ` + reminderColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		reminder.UserID,
		reminder.AssetID,
		reminder.Title,
		nullableString(reminder.Description),
		reminder.DueDate,
		reminder.Type,
		reminder.Recurring,
		nullableString(reminder.Frequency),
		reminder.Completed,
		reminder.CompletedDate,
	)
	return scanReminder(row)
}

// GetByID fetches a reminder scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, reminderID int64) (Reminder, error) {
	query := `SELECT ` + reminderColumns + `
FROM reminders
WHERE id = $1 AND user_id = $2
LIMIT 1`
	reminder, err := scanReminder(r.DB.QueryRowContext(ctx, query, reminderID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return reminder, nil
}

// ListByUser returns the user's reminders, soonest due first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Reminder, error) {
	query := `SELECT ` + reminderJoinColumns + `
FROM reminders r
LEFT JOIN assets a ON a.id = r.asset_id AND a.user_id = r.user_id
WHERE r.user_id = $1
ORDER BY r.due_date ASC, r.id ASC`
	return r.queryMany(ctx, query, userID)
}

// ListUpcoming returns open reminders due on or before the horizon.
func (r *PGRepo) ListUpcoming(ctx context.Context, userID int64, horizon time.Time) ([]Reminder, error) {
	query := `SELECT ` + reminderJoinColumns + `
FROM reminders r
LEFT JOIN assets a ON a.id = r.asset_id AND a.user_id = r.user_id
WHERE r.user_id = $1 AND r.completed = FALSE AND r.due_date <= $2
ORDER BY r.due_date ASC, r.id ASC`
	return r.queryMany(ctx, query, userID, horizon)
}

// Update emits set-clauses only for fields present in upd. Zero affected
// rows map to ErrNotFound.
func (r *PGRepo) Update(ctx context.Context, userID, reminderID int64, upd Update) (Reminder, error) {
	b := db.NewUpdate("reminders")
	if upd.Title != nil {
		b.Set("title", *upd.Title)
	}
	if upd.Description != nil {
		b.Set("description", nullableString(*upd.Description))
	}
	if upd.DueDate != nil {
		b.Set("due_date", *upd.DueDate)
	}
	if upd.Type != nil {
		b.Set("type", *upd.Type)
	}
	if upd.Recurring != nil {
		b.Set("recurring", *upd.Recurring)
	}
	if upd.Frequency != nil {
		b.Set("frequency", nullableString(*upd.Frequency))
	}
	if upd.Completed != nil {
		b.Set("completed", *upd.Completed)
	}
	if upd.CompletedDate != nil {
		b.Set("completed_date", *upd.CompletedDate)
	} else if upd.ClearCompletedDate {
		b.SetNull("completed_date")
	}
	b.SetExpr("updated_at = now()")
	b.Where("id", reminderID)
	b.Where("user_id", userID)

	query, args, err := b.Build()
	if err != nil {
		return Reminder{}, err
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return Reminder{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Reminder{}, ErrNotFound
	}

	return r.GetByID(ctx, userID, reminderID)
}

// Delete removes one reminder; ErrNotFound when no owned row matched.
func (r *PGRepo) Delete(ctx context.Context, userID, reminderID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`, reminderID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssetOwned reports whether the asset exists for the user.
func (r *PGRepo) AssetOwned(ctx context.Context, userID, assetID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1 AND user_id = $2)`,
		assetID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) queryMany(ctx context.Context, query string, args ...any) ([]Reminder, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		reminder, err := scanJoinedReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reminder)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

type reminderScan struct {
	reminder      Reminder
	assetID       sql.NullInt64
	description   sql.NullString
	frequency     sql.NullString
	completedDate sql.NullTime
}

func (s *reminderScan) dests() []any {
	return []any{
		&s.reminder.ID,
		&s.reminder.UserID,
		&s.assetID,
		&s.reminder.Title,
		&s.description,
		&s.reminder.DueDate,
		&s.reminder.Type,
		&s.reminder.Recurring,
		&s.frequency,
		&s.reminder.Completed,
		&s.completedDate,
		&s.reminder.CreatedAt,
		&s.reminder.UpdatedAt,
	}
}

func (s *reminderScan) finish() Reminder {
	if s.assetID.Valid {
		id := s.assetID.Int64
		s.reminder.AssetID = &id
	}
	if s.description.Valid {
		s.reminder.Description = s.description.String
	}
	if s.frequency.Valid {
		s.reminder.Frequency = s.frequency.String
	}
	if s.completedDate.Valid {
		t := s.completedDate.Time
		s.reminder.CompletedDate = &t
	}
	return s.reminder
}

func scanReminder(row rowScanner) (Reminder, error) {
	var s reminderScan
	if err := row.Scan(s.dests()...); err != nil {
		return Reminder{}, err
	}
	return s.finish(), nil
}

func scanJoinedReminder(row rowScanner) (Reminder, error) {
	var s reminderScan
	var assetName sql.NullString
	if err := row.Scan(append(s.dests(), &assetName)...); err != nil {
		return Reminder{}, err
	}
	reminder := s.finish()
	if assetName.Valid {
		reminder.AssetName = assetName.String
	}
	return reminder, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

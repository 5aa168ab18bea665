package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

// Ensure upserts by firebase_uid so concurrent first requests from the same
// unseen identity converge on a single row.
func (r *PGRepo) Ensure(ctx context.Context, firebaseUID, email, displayName string) (int64, error) {
	const query = `
INSERT INTO users (firebase_uid, email, display_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (firebase_uid) DO UPDATE SET
  email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
  display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), users.display_name),
  updated_at = now()
RETURNING id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		firebaseUID,
		nullableString(email),
		nullableString(displayName),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	const query = `
SELECT id, firebase_uid, email, display_name, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var email sql.NullString
	var displayName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.FirebaseUID,
		&email,
		&displayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if email.Valid {
		user.Email = email.String
	}
	if displayName.Valid {
		user.DisplayName = displayName.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	// Ensure returns the local id for the external identity, inserting a
	// row when the identity has not been seen before.
	Ensure(ctx context.Context, firebaseUID, email, displayName string) (int64, error)
	GetByID(ctx context.Context, userID int64) (User, error)
}

package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for development.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byUID  map[string]*User
	byID   map[int64]*User
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byUID:  make(map[string]*User),
		byID:   make(map[int64]*User),
	}
}

func (r *MemoryRepo) Ensure(ctx context.Context, firebaseUID, email, displayName string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUID[firebaseUID]; ok {
		if email != "" {
			existing.Email = email
		}
		if displayName != "" {
			existing.DisplayName = displayName
		}
		existing.UpdatedAt = time.Now().UTC()
		return existing.ID, nil
	}
	now := time.Now().UTC()
	user := &User{
		ID:          r.nextID,
		FirebaseUID: firebaseUID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	r.byUID[firebaseUID] = user
	r.byID[user.ID] = user
	return user.ID, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return *user, nil
}

var _ Repo = (*MemoryRepo)(nil)

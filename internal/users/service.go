package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// EnsureUser resolves an externally-verified identity to the local user id,
// creating the row on first sight. Storage failures propagate untouched.
func (s *Service) EnsureUser(ctx context.Context, firebaseUID, email, displayName string) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("users service not configured")
	}
	if strings.TrimSpace(firebaseUID) == "" {
		return 0, errors.New("external identity is required")
	}
	return s.Repo.Ensure(ctx, firebaseUID, strings.TrimSpace(email), strings.TrimSpace(displayName))
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByID(ctx, userID)
}

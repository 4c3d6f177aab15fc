package service

import (
	"context"

	"lorehub/internal/model"
	"lorehub/internal/repository"
)

// UserService exposes user profiles. Registration, login, and token issuance
// live in an external identity service; this backend only reads users.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns a user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

package services

import (
	"context"

	"github.com/folioweb/siteserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetProfileByUsername(ctx context.Context, username string) (types.Profile, error)
	SearchUsernames(ctx context.Context, term string) ([]string, error)
	Create(ctx context.Context, user types.User) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) GetProfile(ctx context.Context, username string) (types.Profile, error) {
	return s.repo.GetProfileByUsername(ctx, username)
}

func (s *UserService) SearchUsernames(ctx context.Context, term string) ([]string, error) {
	return s.repo.SearchUsernames(ctx, term)
}

// Register stores a new account. The role is always "user"; admin
// accounts are provisioned directly in the database.
func (s *UserService) Register(ctx context.Context, user types.User) error {
	user.Role = types.RoleUser
	return s.repo.Create(ctx, user)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"triance/backend/internal/domain"
	"triance/backend/internal/logger"
	"triance/backend/internal/repository"
)

// UserService is the user directory.
type UserService interface {
	CreateUser(ctx context.Context, username, email string) (*domain.User, error)
	// GetUserByUsername returns NotFound when no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

func NewUserService(userRepo repository.UserRepository, baseLog *logger.Logger) UserService {
	return &userService{userRepo: userRepo, log: baseLog.With("service", "UserService")}
}

func (s *userService) CreateUser(ctx context.Context, username, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, invalid("username is required")
	}
	if email == "" {
		return nil, invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email '%s' is not a valid address", email)
	}

	user := &domain.User{Username: username, Email: email}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("user with username '%s' or email '%s' already exists", username, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", "user_id", user.ID, "username", username)
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fromRepo(err, "get user", fmt.Sprintf("user '%s' not found", username), "")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

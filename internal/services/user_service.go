package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/validators"
	"go.uber.org/zap"
)

const searchLimit = 20

type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// StoreUser creates the caller's record on first sign-in and keeps the profile fields
// reported by the identity provider in sync afterwards.
func (s *UserService) StoreUser(ctx context.Context, id models.Identity) (*models.User, error) {
	if id.TokenIdentifier == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByTokenIdentifier(ctx, id.TokenIdentifier)
	switch {
	case err == nil:
		changed := false
		if id.Name != "" && user.Name != id.Name {
			user.Name = id.Name
			changed = true
		}
		if id.Email != "" && user.Email != id.Email {
			user.Email = id.Email
			changed = true
		}
		if user.ImageURL == "" && id.Picture != "" {
			user.ImageURL = id.Picture
			changed = true
		}
		if changed {
			if err := s.users.UpdateUser(ctx, user); err != nil {
				s.logger.Error("sync user profile", zap.Uint("user_id", user.ID), zap.Error(err))
				return nil, ErrInternal
			}
		}
		return user, nil
	case errors.Is(err, repositories.ErrNotFound):
	default:
		s.logger.Error("lookup user by token", zap.Error(err))
		return nil, ErrInternal
	}

	name := id.Name
	if name == "" {
		name = "Anonymous"
	}
	user = &models.User{
		TokenIdentifier: id.TokenIdentifier,
		Name:            name,
		Email:           id.Email,
		ImageURL:        id.Picture,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent first sign-in
			existing, err := s.users.GetUserByTokenIdentifier(ctx, id.TokenIdentifier)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return nil, ErrUserNotFound
				}
				s.logger.Error("reload user after duplicate insert", zap.Error(err))
				return nil, ErrInternal
			}
			return existing, nil
		}
		s.logger.Error("create user", zap.Error(err))
		return nil, ErrInternal
	}
	s.logger.Info("user created", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *UserService) CurrentUser(ctx context.Context, identity string) (*models.User, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetUserByTokenIdentifier(ctx, identity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user by token", zap.Error(err))
		return nil, ErrInternal
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's record
func (s *UserService) UpdateProfile(ctx context.Context, identity string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.CurrentUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if !validators.ValidUsername(username) {
			return nil, ErrInvalidUsername
		}
		owner, err := s.users.GetUserByUsername(ctx, username)
		switch {
		case err == nil && owner.ID != user.ID:
			return nil, ErrUsernameTaken
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			s.logger.Error("lookup username", zap.String("username", username), zap.Error(err))
			return nil, ErrInternal
		}
		user.Username = &username
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.ImageURL != nil {
		user.ImageURL = *req.ImageURL
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("update user", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.UserCompact, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup username", zap.String("username", username), zap.Error(err))
		return nil, ErrInternal
	}
	compact := user.ToCompact()
	return &compact, nil
}

func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.UserCompact, error) {
	users, err := s.users.SearchUsers(ctx, strings.TrimSpace(query), searchLimit)
	if err != nil {
		s.logger.Error("search users", zap.Error(err))
		return nil, ErrInternal
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, nil
}

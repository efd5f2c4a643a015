package application

import (
	"context"

	"go.uber.org/zap"

	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/internal/events"
)

// UserService manages the user directory.
type UserService struct {
	repo   userDomain.UserRepository
	events emitter
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, producer EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		events: emitter{producer: producer, logger: logger},
		logger: logger,
	}
}

// CreateUser registers a user. Emails are unique.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", saved.ID()))
	result := toUserDTO(saved)
	return &result, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// UpdateUser applies a partial update.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.Int64("user_id", id))
	s.events.publishEvent(ctx, events.TopicUserEvents, events.UserUpdated, id, events.UserChangedEvent{
		UserID:     id,
		OccurredAt: utcNow(),
	})

	result := toUserDTO(u)
	return &result, nil
}

// DeleteUser removes a user together with everything they own.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id))
	s.events.publishEvent(ctx, events.TopicUserEvents, events.UserDeleted, id, events.UserChangedEvent{
		UserID:     id,
		OccurredAt: utcNow(),
	})
	return nil
}

package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/thq-service/internal/domain"
	"github.com/spec-kit/thq-service/internal/repository"
	apperrors "github.com/spec-kit/thq-service/pkg/util/errorutil"
)

// UserService exposes account maintenance operations for the user endpoints.
type UserService struct {
	users   repository.UserRepository
	nonsigs repository.NonsigRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, nonsigs repository.NonsigRepository) *UserService {
	return &UserService{users: users, nonsigs: nonsigs}
}

// List returns all user accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetByID fetches one account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// UpdateInput carries the mutable account fields.
type UpdateInput struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	DefaultNonsig *string
	Role          *domain.UserRole
	IsLocked      *bool
}

// Update applies partial changes to an account. A default nonsig change is
// normalized and checked against active customer records.
func (s *UserService) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsLocked != nil {
		user.IsLocked = *input.IsLocked
	}
	if input.DefaultNonsig != nil {
		code, err := domain.NormalizeNonsigCode(*input.DefaultNonsig)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		nonsig, err := s.nonsigs.GetByCode(ctx, code)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("nonsig", map[string]any{"code": code})
			}
			return nil, err
		}
		if !nonsig.Usable() {
			return nil, apperrors.NewValidationError("nonsig is not active", map[string]any{"code": code})
		}
		user.DefaultNonsig = code
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

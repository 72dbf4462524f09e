package usecase

import (
	"context"
	"time"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterUserInput defines the data required to register a new user.
// Optional profile fields stay nil when the caller omits them.
type RegisterUserInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   *string
	LastName    *string
	Avatar      *string
	About       *string
	DateOfBirth *time.Time

	// Superuser is only settable by internal callers (bootstrap seeding),
	// never bound from a request body.
	Superuser bool
}

// UpdateUserInput defines the optional profile fields for a partial update.
// A nil field is left untouched.
type UpdateUserInput struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	Avatar      *string
	About       *string
	DateOfBirth *time.Time
}

// IsEmpty reports whether the update carries no fields.
func (u *UpdateUserInput) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.FirstName == nil &&
		u.LastName == nil && u.Avatar == nil && u.About == nil && u.DateOfBirth == nil
}

// UserUsecase defines the interface for user-related business operations.
type UserUsecase interface {
	// Register creates a new user account. Email conflicts are reported
	// before username conflicts when both collide.
	Register(ctx context.Context, input *RegisterUserInput) (*entity.User, error)

	// GetByID retrieves a single user.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByUsername retrieves a single user by login handle.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// List returns a page of users ordered by username.
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)

	// Update applies a partial profile update. Changing username or email to a
	// value held by another user is a conflict; keeping one's own value is not.
	Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error)

	// Delete removes the user account permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"accounts/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserUpdate is the allow-listed set of mutable user fields for partial updates.
// A nil field is left untouched. Columns outside this struct can never be
// updated through the repository.
type UserUpdate struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	Avatar      *string
	About       *string
	DateOfBirth *time.Time
}

// IsEmpty reports whether the update would touch no columns.
func (u *UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.FirstName == nil &&
		u.LastName == nil && u.Avatar == nil && u.About == nil && u.DateOfBirth == nil
}

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
//
// Lookup convention: FindByID fails with ErrUserNotFound when the id is absent,
// because callers address a specific user. FindByUsername and FindByEmail are
// existence probes and return (nil, nil) when there is no match.
type UserRepository interface {
	// Create persists a new user. The identifier and creation timestamp are
	// assigned during the insert. A concurrent uniqueness race surfaces as the
	// corresponding already-exists domain error.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByUsername retrieves a user by login handle, or (nil, nil) if no user has it.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail retrieves a user by email, or (nil, nil) if no user has it.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns users ordered by username ascending.
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)

	// Update applies a partial update and returns the updated user.
	Update(ctx context.Context, id uuid.UUID, fields *UserUpdate) (*entity.User, error)

	// Delete removes the user row permanently. No tombstone is kept.
	Delete(ctx context.Context, id uuid.UUID) error
}

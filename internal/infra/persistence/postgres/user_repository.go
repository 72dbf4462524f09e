// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultListLimit = 100

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create persists a new user row. The identifier is assigned during the
// insert and the creation timestamp by the database. A unique-constraint
// violation here is the race-condition fallback: the usecase pre-checks are
// only an optimization, the constraint is the source of truth.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return conflictError(err, "user insert raced a concurrent registration")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate the generated identifier and timestamp back to the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByUsername retrieves a user by login handle. No match is not an error:
// this lookup doubles as the registration existence probe.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("username = ?", username).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a user by email address, or (nil, nil) when absent.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where("email = ?", email).First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// List returns a page of users ordered by username ascending. Pagination is
// only stable in the absence of concurrent writes.
func (repo *userRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var userModels []*model.UserModel
	err := repo.db.WithContext(ctx).
		Order("username asc").
		Offset(offset).
		Limit(limit).
		Find(&userModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// Update applies a partial update built from the allow-listed UserUpdate
// fields. Columns outside the allow list can never be touched here.
func (repo *userRepository) Update(ctx context.Context, id uuid.UUID, fields *repository.UserUpdate) (*entity.User, error) {
	values := updateValues(fields)

	if len(values) > 0 {
		result := repo.db.WithContext(ctx).
			Model(&model.UserModel{}).
			Where("id = ?", id).
			Updates(values)
		if result.Error != nil {
			if isUniqueConstraintViolation(result.Error) {
				return nil, conflictError(result.Error, "user update raced a concurrent write")
			}

			return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrUserNotFound
		}
	}

	return repo.FindByID(ctx, id)
}

// Delete removes the user row permanently.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// conflictError maps a unique violation to the domain conflict naming the
// colliding field, falling back to the generic already-exists error when the
// constraint cannot be attributed to a column.
func conflictError(err error, message string) error {
	switch uniqueViolationColumn(err) {
	case "username":
		return domainerrors.ErrUsernameAlreadyExists.WrapMessage(message)
	case "email":
		return domainerrors.ErrEmailAlreadyExists.WrapMessage(message)
	default:
		return domainerrors.ErrUserAlreadyExists.WrapMessage(message)
	}
}

func updateValues(fields *repository.UserUpdate) map[string]any {
	values := make(map[string]any)
	if fields == nil {
		return values
	}

	if fields.Username != nil {
		values["username"] = *fields.Username
	}
	if fields.Email != nil {
		values["email"] = *fields.Email
	}
	if fields.FirstName != nil {
		values["first_name"] = *fields.FirstName
	}
	if fields.LastName != nil {
		values["last_name"] = *fields.LastName
	}
	if fields.Avatar != nil {
		values["avatar"] = *fields.Avatar
	}
	if fields.About != nil {
		values["about"] = *fields.About
	}
	if fields.DateOfBirth != nil {
		values["date_of_birth"] = *fields.DateOfBirth
	}

	return values
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Avatar:       data.Avatar,
		About:        data.About,
		DateOfBirth:  data.DateOfBirth,
		IsSuperuser:  data.IsSuperuser,
		CreatedAt:    data.CreatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Avatar:       data.Avatar,
		About:        data.About,
		DateOfBirth:  data.DateOfBirth,
		IsSuperuser:  data.IsSuperuser,
	}
}

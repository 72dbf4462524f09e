package impl

import (
	"context"
	"log/slog"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process. The existence
// probes and the insert share one transaction; the unique constraints remain
// the authority when a concurrent registration slips between probe and insert.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterUserInput) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	// Hash before entering the transaction (bcrypt is CPU-bound).
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Email conflict is checked first and wins when both fields collide.
		byEmail, err := userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email availability")
		}
		if byEmail != nil {
			return errors.Wrap(domainerrors.ErrEmailAlreadyExists, "email already registered")
		}

		byUsername, err := userRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			return errors.Wrap(err, "failed to check username availability")
		}
		if byUsername != nil {
			return errors.Wrap(domainerrors.ErrUsernameAlreadyExists, "username already registered")
		}

		newUser := &entity.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hashedPassword,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Avatar:       input.Avatar,
			About:        input.About,
			DateOfBirth:  input.DateOfBirth,
			IsSuperuser:  input.Superuser,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return registeredUser, nil
}

// GetByID retrieves a single user.
func (srv *userService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user id not found")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// GetByUsername retrieves a single user by login handle.
func (srv *userService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := srv.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by username")
	}
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "username not found")
	}

	return user, nil
}

// List returns a page of users ordered by username.
func (srv *userService) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx, offset, limit)
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// Update applies a partial profile update inside one transaction. Submitting
// one's own current username or email is not a conflict.
func (srv *userService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		current, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user id not found")
			}

			return errors.Wrap(err, "failed to load user for update")
		}

		if err := srv.checkUpdateConflicts(ctx, userRepo, current, input); err != nil {
			return err
		}

		fields := &repository.UserUpdate{
			Username:    input.Username,
			Email:       input.Email,
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			Avatar:      input.Avatar,
			About:       input.About,
			DateOfBirth: input.DateOfBirth,
		}

		if fields.IsEmpty() {
			updatedUser = current

			return nil
		}

		updatedUser, err = userRepo.Update(ctx, id, fields)
		if err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("User update failed", slog.Any("userID", id), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User updated", slog.Any("userID", id))

	return updatedUser, nil
}

// checkUpdateConflicts probes the uniqueness of a changed email or username.
// Email is checked first, matching the registration conflict order.
func (srv *userService) checkUpdateConflicts(ctx context.Context, userRepo repository.UserRepository, current *entity.User, input *usecase.UpdateUserInput) error {
	if input.Email != nil && *input.Email != current.Email {
		holder, err := userRepo.FindByEmail(ctx, *input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email availability")
		}
		if holder != nil && holder.ID != current.ID {
			return errors.Wrap(domainerrors.ErrEmailAlreadyExists, "email held by another user")
		}
	}

	if input.Username != nil && *input.Username != current.Username {
		holder, err := userRepo.FindByUsername(ctx, *input.Username)
		if err != nil {
			return errors.Wrap(err, "failed to check username availability")
		}
		if holder != nil && holder.ID != current.ID {
			return errors.Wrap(domainerrors.ErrUsernameAlreadyExists, "username held by another user")
		}
	}

	return nil
}

// Delete removes the user account permanently.
func (srv *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "user id not found")
		}
		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete user")
	}
	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

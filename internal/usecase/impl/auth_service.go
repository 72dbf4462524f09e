// Package impl contains the implementation of the application's business logic.
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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerTokenType = "bearer"

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate verifies the credential pair. Unknown usernames and wrong
// passwords both surface as ErrInvalidCredentials so the response never
// reveals which usernames exist.
func (srv *authService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := srv.userRepo.FindByUsername(ctx, username)
	if err != nil {
		srv.log(ctx).Error("Failed to load user for authentication", slog.String("username", username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by username")
	}
	if user == nil {
		srv.log(ctx).Warn("Authentication failed", slog.String("username", username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown username")
	}

	// bcrypt comparison is CPU-bound and runs outside any transaction.
	if !srv.hasher.Check(password, user.PasswordHash) {
		srv.log(ctx).Warn("Authentication failed", slog.String("username", username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	return user, nil
}

// Login orchestrates the user login process.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("username", input.Username))

	user, err := srv.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	return srv.issueToken(ctx, user)
}

// AdminLogin mints a token like Login, but only for superusers.
func (srv *authService) AdminLogin(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting admin login", slog.String("username", input.Username))

	user, err := srv.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	if !user.IsSuperuser {
		srv.log(ctx).Warn("Admin login rejected for non-superuser", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrForbidden, "admin login requires superuser")
	}

	return srv.issueToken(ctx, user)
}

// issueToken mints an access token whose subject is the username.
func (srv *authService) issueToken(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	accessToken, err := srv.tokenService.Issue(user.Username, srv.tokenService.AccessTokenTTL())
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.String("username", user.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue access token")
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken: accessToken,
		TokenType:   bearerTokenType,
	}, nil
}

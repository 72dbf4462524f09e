package impl

import (
	"context"
	"testing"
	"time"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	mockRepo "accounts/internal/mocks/repository"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func testUser(username string, superuser bool) *entity.User {
	return &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed_password",
		IsSuperuser:  superuser,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := testUser("alice", false)

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(30 * time.Minute)
	fx.tokenService.EXPECT().Issue("alice", 30*time.Minute).Return("signed-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.AccessToken)
	assert.Equal(t, "bearer", output.TokenType)
}

func TestAuthService_Login_UnknownUsername(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "whatever"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := testUser("alice", false)

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", user.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, output)
	// Wrong password and unknown username must be indistinguishable.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, errors.New("connection refused"))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_TokenIssueFails(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := testUser("alice", false)

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(30 * time.Minute)
	fx.tokenService.EXPECT().Issue("alice", 30*time.Minute).Return("", errors.New("signing failed"))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})

	require.Error(t, err)
	assert.Nil(t, output)
}

func TestAuthService_AdminLogin_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	admin := testUser("root", true)

	fx.userRepo.EXPECT().FindByUsername(ctx, "root").Return(admin, nil)
	fx.hasher.EXPECT().Check("Password123!", admin.PasswordHash).Return(true)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.tokenService.EXPECT().Issue("root", 15*time.Minute).Return("admin-token", nil)

	output, err := fx.service.AdminLogin(ctx, &usecase.LoginInput{Username: "root", Password: "Password123!"})

	require.NoError(t, err)
	assert.Equal(t, "admin-token", output.AccessToken)
}

func TestAuthService_AdminLogin_NonSuperuser(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := testUser("alice", false)

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)

	output, err := fx.service.AdminLogin(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestAuthService_AdminLogin_BadCredentials(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "root").Return(nil, nil)

	output, err := fx.service.AdminLogin(ctx, &usecase.LoginInput{Username: "root", Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Authenticate_ReturnsUser(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := testUser("alice", false)

	fx.userRepo.EXPECT().FindByUsername(ctx, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)

	got, err := fx.service.Authenticate(ctx, "alice", "Password123!")

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

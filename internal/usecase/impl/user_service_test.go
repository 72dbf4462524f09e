package impl

import (
	"context"
	"testing"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	mockRepo "accounts/internal/mocks/repository"
	mockSvc "accounts/internal/mocks/service"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service   usecase.UserUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewUserService(UserServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return userServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

// expectTransaction wires the transaction manager mock to run the callback
// against a factory handing out txRepo, propagating the callback's error.
func expectTransaction(t *testing.T, txManager *mockRepo.MockTransactionManager, ctx context.Context, txRepo *mockRepo.MockUserRepository) {
	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			factory.EXPECT().UserRepo().Return(txRepo)

			return fn(factory)
		})
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)

	input := &usecase.RegisterUserInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "Password123!",
		FirstName: strPtr("Alice"),
	}

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
	txRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, nil)
	txRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			user.ID = uuid.New()
		}).
		Return(nil)

	user, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hashed_password", user.PasswordHash)
	assert.NotEqual(t, uuid.Nil, user.ID)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Alice", *user.FirstName)
	assert.False(t, user.IsSuperuser)
}

func TestUserService_Register_EmailConflict(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	expectTransaction(t, fx.txManager, ctx, txRepo)

	// Email is probed first; a hit short-circuits before the username probe.
	txRepo.EXPECT().
		FindByEmail(ctx, "taken@example.com").
		Return(&entity.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	user, err := fx.service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "taken@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyExists))
}

func TestUserService_Register_UsernameConflict(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
	txRepo.EXPECT().
		FindByUsername(ctx, "alice").
		Return(&entity.User{ID: uuid.New(), Username: "alice"}, nil)

	user, err := fx.service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameAlreadyExists))
}

func TestUserService_Register_HashFailure(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.hasher.EXPECT().Hash("Password123!").Return("", errors.New("cost out of range"))

	user, err := fx.service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestUserService_Register_InsertRace(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed_password", nil)
	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, nil)
	txRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, nil)
	// A concurrent registration slipped between probe and insert; the
	// constraint error surfaces as the same conflict.
	txRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUsernameAlreadyExists.WrapMessage("user insert raced a concurrent registration"))

	user, err := fx.service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameAlreadyExists))
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrUserNotFound)

	user, err := fx.service.GetByID(ctx, id)

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_GetByUsername_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, nil)

	user, err := fx.service.GetByUsername(ctx, "ghost")

	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_List(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	page := []*entity.User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}

	fx.userRepo.EXPECT().List(ctx, 0, 100).Return(page, nil)

	users, err := fx.service.List(ctx, 0, 100)

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
}

func TestUserService_Update_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)
	id := uuid.New()
	current := &entity.User{ID: id, Username: "alice", Email: "alice@example.com"}

	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByID(ctx, id).Return(current, nil)
	txRepo.EXPECT().FindByEmail(ctx, "new@example.com").Return(nil, nil)
	txRepo.EXPECT().
		Update(ctx, id, mock.AnythingOfType("*repository.UserUpdate")).
		RunAndReturn(func(_ context.Context, _ uuid.UUID, fields *repository.UserUpdate) (*entity.User, error) {
			require.NotNil(t, fields.Email)

			return &entity.User{ID: id, Username: "alice", Email: *fields.Email}, nil
		})

	updated, err := fx.service.Update(ctx, id, &usecase.UpdateUserInput{Email: strPtr("new@example.com")})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
}

func TestUserService_Update_SelfCollisionAllowed(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)
	id := uuid.New()
	current := &entity.User{ID: id, Username: "alice", Email: "alice@example.com"}

	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByID(ctx, id).Return(current, nil)
	// Resubmitting the current username skips the availability probe entirely.
	txRepo.EXPECT().
		Update(ctx, id, mock.AnythingOfType("*repository.UserUpdate")).
		Return(current, nil)

	updated, err := fx.service.Update(ctx, id, &usecase.UpdateUserInput{Username: strPtr("alice")})

	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_Update_UsernameConflict(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)
	id := uuid.New()
	current := &entity.User{ID: id, Username: "alice", Email: "alice@example.com"}

	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByID(ctx, id).Return(current, nil)
	txRepo.EXPECT().
		FindByUsername(ctx, "bob").
		Return(&entity.User{ID: uuid.New(), Username: "bob"}, nil)

	updated, err := fx.service.Update(ctx, id, &usecase.UpdateUserInput{Username: strPtr("bob")})

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameAlreadyExists))
}

func TestUserService_Update_EmptyInput(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)
	id := uuid.New()
	current := &entity.User{ID: id, Username: "alice", Email: "alice@example.com"}

	expectTransaction(t, fx.txManager, ctx, txRepo)

	// No fields set: the current row is returned without touching storage.
	txRepo.EXPECT().FindByID(ctx, id).Return(current, nil)

	updated, err := fx.service.Update(ctx, id, &usecase.UpdateUserInput{})

	require.NoError(t, err)
	assert.Equal(t, current, updated)
}

func TestUserService_Update_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	txRepo := mockRepo.NewMockUserRepository(t)
	id := uuid.New()

	expectTransaction(t, fx.txManager, ctx, txRepo)

	txRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrUserNotFound)

	updated, err := fx.service.Update(ctx, id, &usecase.UpdateUserInput{Email: strPtr("new@example.com")})

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_Delete_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.EXPECT().Delete(ctx, id).Return(nil)

	require.NoError(t, fx.service.Delete(ctx, id))
}

func TestUserService_Delete_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.EXPECT().Delete(ctx, id).Return(repository.ErrUserNotFound)

	err := fx.service.Delete(ctx, id)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	mockUc "accounts/internal/mocks/usecase"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// withUser simulates the authentication middleware by placing a user on the context.
func withUser(user *entity.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("currentUser", user)

			return next(c)
		}
	}
}

func fixtureUser() *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

func TestUserHandler_GetMe(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	user := fixtureUser()

	e := newTestEcho()
	e.GET("/users/me", h.GetMe, withUser(user))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"is_superuser":false`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_ListUsers_Pagination(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())

	e := newTestEcho()
	e.GET("/users", h.ListUsers, withUser(fixtureUser()))

	uc.EXPECT().
		List(mock.Anything, 5, 10).
		Return([]*entity.User{{ID: uuid.New(), Username: "bob"}}, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?skip=5&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)
}

func TestUserHandler_ListUsers_DefaultLimit(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())

	e := newTestEcho()
	e.GET("/users", h.ListUsers, withUser(fixtureUser()))

	// Garbage pagination values fall back to the defaults.
	uc.EXPECT().
		List(mock.Anything, 0, 100).
		Return([]*entity.User{}, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?skip=abc&limit=-3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUserHandler_UpdateMe_PartialUpdate(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	user := fixtureUser()

	e := newTestEcho()
	e.PUT("/users/me", h.UpdateMe, withUser(user))

	uc.EXPECT().
		Update(mock.Anything, user.ID, mock.AnythingOfType("*usecase.UpdateUserInput")).
		RunAndReturn(func(_ context.Context, _ uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
			require.NotNil(t, input.FirstName)
			require.Nil(t, input.Email)
			updated := *user
			updated.FirstName = input.FirstName

			return &updated, nil
		})

	body := `{"first_name":"Alice"}`
	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_UpdateMe_InvalidEmail(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	user := fixtureUser()

	e := newTestEcho()
	e.PUT("/users/me", h.UpdateMe, withUser(user))

	body := `{"email":"nope"}`
	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_UpdateMe_UsernameConflict(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	user := fixtureUser()

	e := newTestEcho()
	e.PUT("/users/me", h.UpdateMe, withUser(user))

	uc.EXPECT().
		Update(mock.Anything, user.ID, mock.AnythingOfType("*usecase.UpdateUserInput")).
		Return(nil, errors.Wrap(domainerrors.ErrUsernameAlreadyExists, "username held by another user"))

	body := `{"username":"bob"}`
	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Username is already exists"}`, rec.Body.String())
}

func TestUserHandler_DeleteMe(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	user := fixtureUser()

	e := newTestEcho()
	e.DELETE("/users/me", h.DeleteMe, withUser(user))

	uc.EXPECT().Delete(mock.Anything, user.ID).Return(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted"}`, rec.Body.String())
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())
	id := uuid.New()

	e := newTestEcho()
	e.GET("/users/:id", h.GetUser, withUser(fixtureUser()))

	uc.EXPECT().
		GetByID(mock.Anything, id).
		Return(nil, errors.Wrap(domainerrors.ErrUserNotFound, "user id not found"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+id.String(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, rec.Body.String())
}

func TestUserHandler_GetUser_InvalidID(t *testing.T) {
	uc := mockUc.NewMockUserUsecase(t)
	h := NewUserHandler(uc, newDiscardLogger())

	e := newTestEcho()
	e.GET("/users/:id", h.GetUser, withUser(fixtureUser()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

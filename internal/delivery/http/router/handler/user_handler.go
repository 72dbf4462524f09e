package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"accounts/internal/delivery/http/middleware"
	"accounts/internal/delivery/http/response"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const defaultPageLimit = 100

// registerRequest binds the JSON body of an account registration.
type registerRequest struct {
	Username    string     `json:"username" validate:"required,max=30"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=8"`
	FirstName   *string    `json:"first_name" validate:"omitempty,max=60"`
	LastName    *string    `json:"last_name" validate:"omitempty,max=60"`
	Avatar      *string    `json:"avatar"`
	About       *string    `json:"about"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// updateRequest binds the JSON body of a partial profile update.
// Absent fields stay nil and leave the stored value untouched.
type updateRequest struct {
	Username    *string    `json:"username" validate:"omitempty,max=30"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	FirstName   *string    `json:"first_name" validate:"omitempty,max=60"`
	LastName    *string    `json:"last_name" validate:"omitempty,max=60"`
	Avatar      *string    `json:"avatar"`
	About       *string    `json:"about"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// userResponse is the public wire shape of an account. The password hash
// never appears here.
type userResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Avatar      *string    `json:"avatar"`
	About       *string    `json:"about"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	IsSuperuser bool       `json:"is_superuser"`
}

func toUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Avatar:      user.Avatar,
		About:       user.About,
		DateOfBirth: user.DateOfBirth,
		CreatedAt:   user.CreatedAt,
		IsSuperuser: user.IsSuperuser,
	}
}

// bindingError maps an echo binding failure to the validation domain error.
func bindingError(err error) error {
	return domainerrors.ErrValidationFailed.WithDetails(err.Error())
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListUsers returns a page of accounts ordered by username.
func (h *UserHandler) ListUsers(c echo.Context) error {
	offset := intQueryParam(c, "skip", 0)
	limit := intQueryParam(c, "limit", defaultPageLimit)

	users, err := h.uc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := make([]userResponse, 0, len(users))
	for _, user := range users {
		payload = append(payload, toUserResponse(user))
	}

	return c.JSON(http.StatusOK, payload)
}

// GetMe returns the authenticated account's own profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrInvalidToken, "no authenticated user on context")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe applies a partial update to the authenticated account.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrInvalidToken, "no authenticated user on context")
	}

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(bindingError(err), "failed to bind update input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	updated, err := h.uc.Update(c.Request().Context(), user.ID, &usecase.UpdateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Avatar:      req.Avatar,
		About:       req.About,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// DeleteMe removes the authenticated account permanently.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Wrap(domainerrors.ErrInvalidToken, "no authenticated user on context")
	}

	if err := h.uc.Delete(c.Request().Context(), user.ID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "User deleted")
}

// GetUser returns a single account by its identifier.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid user id"), "failed to parse user id")
	}

	user, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}

	return value
}

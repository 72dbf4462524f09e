// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// loginRequest binds the form-encoded credential pair.
type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// tokenResponse is the wire shape of a minted access token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	authUc usecase.AuthUsecase
	userUc usecase.UserUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUc usecase.AuthUsecase, userUc usecase.UserUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUc: authUc,
		userUc: userUc,
		logger: logger,
	}
}

// Login handles the credential login request and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	input, err := h.bindLogin(c)
	if err != nil {
		return err
	}

	output, err := h.authUc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	})
}

// AdminLogin issues a token like Login but only for superuser accounts.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	input, err := h.bindLogin(c)
	if err != nil {
		return err
	}

	output, err := h.authUc.AdminLogin(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	})
}

// Signin handles the account registration request.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errors.Wrap(bindingError(err), "failed to bind registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userUc.Register(c.Request().Context(), &usecase.RegisterUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Avatar:      req.Avatar,
		About:       req.About,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *AuthHandler) bindLogin(c echo.Context) (*usecase.LoginInput, error) {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.Wrap(bindingError(err), "failed to bind login input")
	}
	if err := c.Validate(&req); err != nil {
		return nil, errors.WithStack(err)
	}

	return &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, nil
}

// Package middleware contains the HTTP middleware for the delivery layer.
package middleware

import (
	"strings"

	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// currentUserKey is the echo context key holding the authenticated user.
const currentUserKey = "currentUser"

// AuthMiddleware provides middleware for bearer token authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userUc   usecase.UserUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userUc usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userUc: userUc}
}

// Authenticate validates the bearer access token and loads the account it
// names. Every failure mode collapses into the same 401 so a caller cannot
// distinguish a bad signature from a deleted account.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return errors.Wrap(domainerrors.ErrInvalidToken, "authorization header missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return errors.Wrap(domainerrors.ErrInvalidToken, "authorization header is not a bearer token")
		}

		subject, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return errors.Wrap(domainerrors.ErrInvalidToken, "token validation failed")
		}

		// The subject is a username; the account may have been deleted after
		// the token was minted.
		user, err := m.userUc.GetByUsername(c.Request().Context(), subject)
		if err != nil {
			return errors.Wrap(domainerrors.ErrInvalidToken, "token subject does not resolve to a user")
		}

		c.Set(currentUserKey, user)

		return next(c)
	}
}

// RequireSuperuser rejects non-superuser accounts. It must be used AFTER the
// Authenticate middleware.
func (m *AuthMiddleware) RequireSuperuser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return errors.Wrap(domainerrors.ErrInvalidToken, "no authenticated user on context")
		}
		if !user.IsSuperuser {
			return errors.Wrap(domainerrors.ErrForbidden, "superuser required")
		}

		return next(c)
	}
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(currentUserKey).(*entity.User)

	return user, ok
}

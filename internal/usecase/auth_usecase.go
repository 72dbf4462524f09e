// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"accounts/internal/domain/entity"
)

// LoginInput defines the credentials submitted to log in.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput returns the generated access token after a successful login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
}

// AuthUsecase defines the interface for authentication-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Authenticate verifies a username/password pair and returns the matching
	// user. Unknown usernames and wrong passwords fail identically.
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)

	// Login authenticates and mints a bearer access token for the user.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// AdminLogin behaves like Login but only superusers may pass.
	AdminLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}

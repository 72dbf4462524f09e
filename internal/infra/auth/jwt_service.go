// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"accounts/config"
	"accounts/internal/domain/service"
)

const defaultAlgorithm = "HS256"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Tokens are signed with a single process-wide secret using a shared-secret
// HMAC algorithm; there is no server-side token state.
type jwtService struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
// The algorithm name must resolve to an HMAC signing method (HS256/HS384/HS512).
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	algorithm := cfg.Auth.Algorithm
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, errors.Errorf("unknown signing algorithm: %s", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("signing algorithm %s is not a shared-secret HMAC method", algorithm)
	}

	return &jwtService{
		secret:    []byte(cfg.Auth.SecretKey),
		method:    method,
		accessTTL: cfg.Auth.AccessTokenTTL(),
	}, nil
}

// Issue creates a signed token carrying the subject and an absolute expiry.
// A non-positive ttl is not rejected; the resulting token simply validates as expired.
func (s *jwtService) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(s.method, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate verifies the token's signature and expiry and returns the subject claim.
// All verification failures collapse into service.ErrInvalidToken; a verified
// token without a subject fails with service.ErrMissingSubject.
func (s *jwtService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", service.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", service.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", service.ErrMissingSubject
	}

	return claims.Subject, nil
}

// AccessTokenTTL returns the configured lifetime for access tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

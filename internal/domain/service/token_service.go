package service

import (
	"errors"
	"time"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed payload, or an expiry in the past.
var ErrInvalidToken = errors.New("invalid token")

// ErrMissingSubject is returned when a verified token carries no subject claim.
var ErrMissingSubject = errors.New("token has no subject")

// TokenService defines the interface for issuing and validating signed bearer tokens.
// Tokens are stateless and cannot be revoked before their expiry.
type TokenService interface {
	// Issue creates a signed token for the given subject, expiring after ttl.
	// A non-positive ttl produces a token that is already expired.
	Issue(subject string, ttl time.Duration) (string, error)

	// Validate verifies the token's signature and expiry and returns its subject.
	Validate(token string) (string, error)

	// AccessTokenTTL returns the configured lifetime for access tokens.
	AccessTokenTTL() time.Duration
}

package auth

import (
	"testing"
	"time"

	"accounts/config"
	"accounts/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		SecretKey:                "test_secret_key_very_long_for_testing",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
	}

	return cfg
}

func TestJWTService_IssueAndValidate_RoundTrip(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	token, err := jwtService.Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := jwtService.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	// Non-positive TTL yields an already-expired token rather than an issue error.
	token, err := jwtService.Issue("alice", -time.Minute)
	require.NoError(t, err)

	subject, err := jwtService.Validate(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestJWTService_ZeroTTLToken(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	token, err := jwtService.Issue("alice", 0)
	require.NoError(t, err)

	_, err = jwtService.Validate(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_MalformedToken(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	subject, err := jwtService.Validate("clearly-not-a-jwt-token-format")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestJWTService_ForgedToken(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	otherCfg := testTokenConfig()
	otherCfg.Auth.SecretKey = "a_completely_different_secret_key"
	forger, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	forged, err := forger.Issue("alice", time.Minute)
	require.NoError(t, err)

	_, err = jwtService.Validate(forged)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestJWTService_MissingSubject(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	token, err := jwtService.Issue("", time.Minute)
	require.NoError(t, err)

	_, err = jwtService.Validate(token)
	assert.ErrorIs(t, err, service.ErrMissingSubject)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Auth.SecretKey = ""

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_RejectsNonHMACAlgorithm(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Auth.Algorithm = "RS256"

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
}

func TestJWTService_AccessTokenTTL(t *testing.T) {
	jwtService, err := NewJWTService(testTokenConfig())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, jwtService.AccessTokenTTL())
}

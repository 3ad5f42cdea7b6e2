package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verksted-as/workshop-api/internal/config"
	"github.com/verksted-as/workshop-api/internal/domain"
)

func testTokenService() *TokenService {
	return NewTokenService(&config.AuthConfig{
		JWTSecret:     "test-secret-at-least-32-characters",
		Issuer:        "workshop-api-test",
		TokenTTLHours: 8,
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := testTokenService()

	user := &domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Email:       "mechanic@example.com",
		DisplayName: "Test Mechanic",
		Roles:       pq.StringArray{"mechanic", "receptionist"},
	}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.DisplayName, userCtx.DisplayName)
	assert.True(t, userCtx.HasRole(domain.RoleMechanic))
	assert.True(t, userCtx.HasRole(domain.RoleReceptionist))
	assert.False(t, userCtx.IsAdmin())
}

func TestTokenService_ValidateToken(t *testing.T) {
	svc := testTokenService()

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewTokenService(&config.AuthConfig{
			JWTSecret:     "a-completely-different-signing-secret",
			Issuer:        "workshop-api-test",
			TokenTTLHours: 8,
		})
		token, err := other.IssueToken(&domain.User{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Roles:     pq.StringArray{"admin"},
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := NewTokenService(&config.AuthConfig{
			JWTSecret:     "test-secret-at-least-32-characters",
			Issuer:        "someone-else",
			TokenTTLHours: 8,
		})
		token, err := other.IssueToken(&domain.User{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Roles:     pq.StringArray{"admin"},
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewTokenService(&config.AuthConfig{
			JWTSecret:     "test-secret-at-least-32-characters",
			Issuer:        "workshop-api-test",
			TokenTTLHours: -1,
		})
		token, err := expired.IssueToken(&domain.User{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Roles:     pq.StringArray{"admin"},
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

package jwt

import (
	"MeatFresh-Backend/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	svc := NewJWTServiceWithSecret("test-secret")

	token := svc.GenerateTokenUser("3f1c2b9e-1111-4c3a-9d7e-000000000001", domain.RoleUser)
	require.NotEmpty(t, token)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c2b9e-1111-4c3a-9d7e-000000000001", id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestUserTokenRejectedWithOtherSecret(t *testing.T) {
	token := NewJWTServiceWithSecret("a").GenerateTokenUser("user-1", domain.RoleUser)

	_, _, err := NewJWTServiceWithSecret("b").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestUserTokenExpired(t *testing.T) {
	svc := &jwtService{
		secretKey: "test-secret",
		issuer:    issuer,
		now:       func() time.Time { return time.Now().Add(-3 * time.Hour) },
	}

	_, _, err := svc.GetUserIDByToken(svc.GenerateTokenUser("user-1", domain.RoleUser))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestResetToken(t *testing.T) {
	svc := NewJWTServiceWithSecret("test-secret")

	token, err := svc.GenerateTokenForgetPassword(map[string]any{ClaimUserID: "user-1"}, 15*time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateTokenForgetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims[ClaimUserID])

	_, err = svc.ValidateTokenForgetPassword(svc.GenerateTokenUser("user-1", domain.RoleUser))
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "a login token must not reset passwords")

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid, "a reset token must not authenticate")

	expired, err := svc.GenerateTokenForgetPassword(map[string]any{ClaimUserID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateTokenForgetPassword(expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	authenticator := NewJWTAuthenticator("secret", "uptask", "uptask", time.Hour)

	token, err := authenticator.IssueSession("64f1b2c3d4e5f6a7b8c9d0e1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := authenticator.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f6a7b8c9d0e1", userID)
}

func TestVerifySessionExpired(t *testing.T) {
	authenticator := NewJWTAuthenticator("secret", "uptask", "uptask", -time.Minute)

	token, err := authenticator.IssueSession("64f1b2c3d4e5f6a7b8c9d0e1")
	require.NoError(t, err)

	_, err = authenticator.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionWrongSecret(t *testing.T) {
	issuer := NewJWTAuthenticator("secret-a", "uptask", "uptask", time.Hour)
	verifier := NewJWTAuthenticator("secret-b", "uptask", "uptask", time.Hour)

	token, err := issuer.IssueSession("64f1b2c3d4e5f6a7b8c9d0e1")
	require.NoError(t, err)

	_, err = verifier.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionWrongAudience(t *testing.T) {
	issuer := NewJWTAuthenticator("secret", "other-app", "uptask", time.Hour)
	verifier := NewJWTAuthenticator("secret", "uptask", "uptask", time.Hour)

	token, err := issuer.IssueSession("64f1b2c3d4e5f6a7b8c9d0e1")
	require.NoError(t, err)

	_, err = verifier.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionGarbage(t *testing.T) {
	authenticator := NewJWTAuthenticator("secret", "uptask", "uptask", time.Hour)

	_, err := authenticator.VerifySession("not.a.token")
	assert.Error(t, err)
}

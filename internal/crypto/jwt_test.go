package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("test-secret")
	require.NoError(t, err)

	token, err := m.CreateToken("u1", "alice")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "alice", claims.Username)
}

func TestJWTManager_RejectsForeignToken(t *testing.T) {
	issuer, err := NewJWTManager("secret-a")
	require.NoError(t, err)
	verifier, err := NewJWTManager("secret-b")
	require.NoError(t, err)

	token, err := issuer.CreateToken("u1", "alice")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	m, err := NewJWTManager("test-secret")
	require.NoError(t, err)

	_, err = m.VerifyToken("not-a-token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, CheckPassword(hash, "hunter2"))
	require.False(t, CheckPassword(hash, "hunter3"))
}

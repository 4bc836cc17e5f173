package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "u1"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoad_EnvWins(t *testing.T) {
	t.Setenv(envToken, "env-token")

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": "file-token"}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", s.Token())
}

func TestLoad_File(t *testing.T) {
	t.Setenv(envToken, "")

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": "file-token"}`), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", s.Token())
	assert.True(t, s.Authenticated())
}

func TestLoad_MissingFileIsAnonymous(t *testing.T) {
	t.Setenv(envToken, "")

	s, err := Load(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	assert.False(t, s.Authenticated())
}

func TestSession_SetTokenRoundTrip(t *testing.T) {
	t.Setenv(envToken, "")
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("fresh-token"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", reloaded.Token())
}

func TestSession_Clear(t *testing.T) {
	t.Setenv(envToken, "")
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.Clear())

	assert.False(t, s.Authenticated())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already-clear session is fine.
	require.NoError(t, s.Clear())
}

func TestSession_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	s := &Session{token: signedToken(t, exp)}
	assert.WithinDuration(t, exp, s.ExpiresAt(), time.Second)
}

func TestSession_ExpiringSoon(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  bool
	}{
		{
			name:  "expires within window",
			token: func(t *testing.T) string { return signedToken(t, time.Now().Add(10*time.Minute)) },
			want:  true,
		},
		{
			name:  "plenty of time left",
			token: func(t *testing.T) string { return signedToken(t, time.Now().Add(48*time.Hour)) },
			want:  false,
		},
		{
			name:  "already expired",
			token: func(t *testing.T) string { return signedToken(t, time.Now().Add(-time.Minute)) },
			want:  true,
		},
		{
			name:  "no exp claim",
			token: func(t *testing.T) string { return signedToken(t, time.Time{}) },
			want:  false,
		},
		{
			name:  "opaque token",
			token: func(t *testing.T) string { return "not-a-jwt" },
			want:  false,
		},
		{
			name:  "logged out",
			token: func(t *testing.T) string { return "" },
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{token: tt.token(t)}
			assert.Equal(t, tt.want, s.ExpiringSoon(time.Hour))
		})
	}
}

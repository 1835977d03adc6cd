package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "alumnode-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWT()

	token, expiresAt, err := svc.Generate(PrincipalUser, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token, PrincipalUser)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, PrincipalUser, claims.Kind)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := newTestJWT()

	a, _, err := svc.Generate(PrincipalUser, 1)
	require.NoError(t, err)
	b, _, err := svc.Generate(PrincipalUser, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestJWTService_RejectsOtherKind(t *testing.T) {
	svc := newTestJWT()

	token, _, err := svc.Generate(PrincipalUser, 7)
	require.NoError(t, err)

	_, err = svc.Validate(token, PrincipalAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.Generate(PrincipalAdmin, 3)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token, PrincipalAdmin)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := newTestJWT().Generate(PrincipalUser, 9)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another", TokenExp: time.Hour})
	_, err = other.Validate(token, PrincipalUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer prefix", header: "Bearer abc.def", want: "abc.def"},
		{name: "lowercase prefix", header: "bearer abc", want: "abc"},
		{name: "raw token", header: "abc", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "prefix only", header: "Bearer ", wantErr: true},
		{name: "prefix without space", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, h.Check(hash, "pw123456"))
	assert.False(t, h.Check(hash, "wrong"))
}

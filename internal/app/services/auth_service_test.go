package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services/servicetest"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/auth"
)

func newAuthService() (*AuthService, *servicetest.Tokens) {
	tokens := servicetest.NewTokens()
	sessions := NewSessionService(auth.PrincipalUser, newTestJWT(time.Hour), tokens, zerolog.Nop())
	return NewAuthService(servicetest.NewUsers(), sessions, auth.NewPasswordHasher(4), zerolog.Nop()), tokens
}

func signupRequest() dto.SignupRequest {
	return dto.SignupRequest{
		FirstName:    "Asha",
		LastName:     "Rao",
		MobileNumber: "9876543210",
		Email:        " A@X.com ",
		CollegeEmail: "asha@college.edu",
		Password:     "pw123456",
		IsAlumni:     true,
	}
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService()

	signed, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, "a@x.com", signed.User.Email)
	assert.True(t, signed.User.IsAlumni)
	assert.NotEqual(t, "pw123456", signed.User.Password)

	logged, err := svc.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEqual(t, signed.Token, logged.Token)
	assert.Equal(t, signed.User.ID, logged.User.ID)
	assert.Equal(t, 2, tokens.Len())

	principal, err := svc.LoadUser(ctx, logged.User.ID)
	require.NoError(t, err)
	assert.Equal(t, logged.User.ID, principal.(*models.User).ID)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupRequest())
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
	assert.Equal(t, 1, tokens.Len())
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "pw123456"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService()

	resp, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	assert.Equal(t, 0, tokens.Len())

	_, err = svc.sessions.Resolve(ctx, resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthService_LoadUnknownUser(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.LoadUser(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func newAdminService() *AdminService {
	sessions := NewSessionService(auth.PrincipalAdmin, newTestJWT(time.Hour), servicetest.NewTokens(), zerolog.Nop())
	return NewAdminService(servicetest.NewAdmins(), sessions, auth.NewPasswordHasher(4), zerolog.Nop())
}

func TestAdminService_CreateAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAdminService()
	creds := dto.AdminCredentialsRequest{Username: "root", Password: "s3cret"}

	admin, err := svc.CreateAdmin(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)

	_, err = svc.CreateAdmin(ctx, creds)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	resp, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, dto.AdminCredentialsRequest{Username: "root", Password: "nope"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "Password Not Correct!", err.Error())

	_, err = svc.Login(ctx, dto.AdminCredentialsRequest{Username: "ghost", Password: "s3cret"})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Admin Not Found!", err.Error())

	require.NoError(t, svc.Logout(ctx, resp.Token))
	_, err = svc.sessions.Resolve(ctx, resp.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

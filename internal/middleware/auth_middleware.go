package middleware

import (
	"context"
	"errors"

	"github.com/alumnode/backend/internal/app/models"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by the guard
const (
	ContextPrincipal   = "principal"
	ContextPrincipalID = "principalID"
	ContextToken       = "token"
)

// SessionResolver maps a raw token to the principal it was issued for.
// Implemented by services.SessionService.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// PrincipalLoader loads the principal behind a resolved token
type PrincipalLoader func(ctx context.Context, id int64) (interface{}, error)

// AuthMiddleware guards routes of one principal kind
type AuthMiddleware struct {
	sessions SessionResolver
	load     PrincipalLoader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionResolver, load PrincipalLoader) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		load:     load,
	}
}

// Guard rejects requests without a valid bearer token and stores the
// principal, its ID and the raw token in the context.
func (m *AuthMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Unauthenticated!"))
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		id, err := m.sessions.Resolve(ctx, token)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		principal, err := m.load(ctx, id)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Set(ContextPrincipalID, id)
		c.Set(ContextToken, token)
		c.Next()
	}
}

var errNoPrincipal = apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Unauthenticated!")

// CurrentUserID returns the ID stored by the guard
func CurrentUserID(c *gin.Context) (int64, error) {
	v, ok := c.Get(ContextPrincipalID)
	if !ok {
		return 0, errNoPrincipal
	}
	id, ok := v.(int64)
	if !ok {
		return 0, errors.New("principal id has unexpected type")
	}
	return id, nil
}

// CurrentUser returns the user stored by the user guard
func CurrentUser(c *gin.Context) (*models.User, error) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, errNoPrincipal
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil, errNoPrincipal
	}
	return user, nil
}

// CurrentAdmin returns the admin stored by the admin guard
func CurrentAdmin(c *gin.Context) (*models.Admin, error) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, errNoPrincipal
	}
	admin, ok := v.(*models.Admin)
	if !ok {
		return nil, errNoPrincipal
	}
	return admin, nil
}

// CurrentToken returns the raw bearer token the request was authenticated with
func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}

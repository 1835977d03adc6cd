package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/pkg/apperrors"
)

type envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func handle(t *testing.T, err error) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, err)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{apperrors.NewAlreadyExistsError("User with this details already exists!"), http.StatusBadRequest, "User with this details already exists!"},
		{apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Wrong password"), http.StatusBadRequest, "Wrong password"},
		{apperrors.NewInvalidOperationError("You cannot connect with yourself!"), http.StatusBadRequest, "You cannot connect with yourself!"},
		{apperrors.NewCustomError(apperrors.ErrAlreadyConnected, "connected"), http.StatusBadRequest, "connected"},
		{apperrors.NewCustomError(apperrors.ErrRequestAlreadyExists, "exists"), http.StatusBadRequest, "exists"},
		{apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Unauthenticated!"), http.StatusUnauthorized, "Unauthenticated!"},
		{apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid token!"), http.StatusUnauthorized, "Invalid token!"},
		{apperrors.NewResourceNotFoundError("Post not found!"), http.StatusNotFound, "Post not found!"},
		{fmt.Errorf("wrapped: %w", apperrors.NewResourceNotFoundError("User not found!")), http.StatusNotFound, "User not found!"},
		{apperrors.NewCustomError(apperrors.ErrRateLimited, "slow down"), http.StatusTooManyRequests, "slow down"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal Server Error!"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			status, env := handle(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.True(t, env.Error)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestHandleAPIError_ValidationFields(t *testing.T) {
	verr := apperrors.NewValidationError("Company name and position are required for job/internship posts!").
		Add("company_name", "is required").
		Add("position", "is required")

	status, env := handle(t, verr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Company name and position are required for job/internship posts!", env.Message)

	var data struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, map[string]string{"company_name": "is required", "position": "is required"}, data.Fields)
}

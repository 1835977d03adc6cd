package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/app/models/dto"
)

func bindSignup(t *testing.T, body string) (*httptest.ResponseRecorder, bool, dto.SignupRequest) {
	t.Helper()
	require.NoError(t, RegisterValidators())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/user/signup", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req dto.SignupRequest
	ok := BindJSON(c, &req)
	return w, ok, req
}

func TestBindJSON_Valid(t *testing.T) {
	_, ok, req := bindSignup(t, `{
		"first_name": "Asha", "last_name": "Rao", "mobile_number": "+919876543210",
		"email": "a@x.com", "college_email": "asha@college.edu", "password": "pw123456", "is_alumni": true
	}`)
	require.True(t, ok)
	assert.Equal(t, "Asha", req.FirstName)
	assert.True(t, req.IsAlumni)
}

func TestBindJSON_ReportsEveryField(t *testing.T) {
	w, ok, _ := bindSignup(t, `{"first_name": "Asha", "email": "not-an-email", "mobile_number": "12ab", "password": "123"}`)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
		Data    struct {
			Fields map[string]string `json:"fields"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Error)

	fields := resp.Data.Fields
	assert.Equal(t, "is required", fields["last_name"])
	assert.Equal(t, "is required", fields["college_email"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be a valid mobile number", fields["mobile_number"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.NotContains(t, fields, "first_name")
}

func TestBindJSON_MalformedBody(t *testing.T) {
	w, ok, _ := bindSignup(t, `{"first_name": `)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body!")
}

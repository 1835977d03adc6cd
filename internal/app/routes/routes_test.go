package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnode/backend/internal/app/controllers"
	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/app/services"
	"github.com/alumnode/backend/internal/app/services/servicetest"
	"github.com/alumnode/backend/internal/middleware"
	"github.com/alumnode/backend/internal/pkg/auth"
	"github.com/alumnode/backend/internal/pkg/sanitize"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testAPI struct {
	router *gin.Engine
	admin  *services.AdminService
}

func newTestAPI(t *testing.T, pinger controllers.Pinger) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	lgr := zerolog.Nop()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", TokenExp: time.Hour, TokenIssuer: "alumnode-test"})
	hasher := auth.NewPasswordHasher(4)
	sanitizer := sanitize.New()

	users := servicetest.NewUsers()
	admins := servicetest.NewAdmins()

	userSessions := services.NewSessionService(auth.PrincipalUser, jwt, servicetest.NewTokens(), lgr)
	adminSessions := services.NewSessionService(auth.PrincipalAdmin, jwt, servicetest.NewTokens(), lgr)

	authSvc := services.NewAuthService(users, userSessions, hasher, lgr)
	adminSvc := services.NewAdminService(admins, adminSessions, hasher, lgr)
	connSvc := services.NewConnectionService(servicetest.NewConnections(users), users, lgr)
	profileSvc := services.NewProfileService(users, servicetest.NewProfiles(), connSvc, sanitizer, lgr)
	postSvc := services.NewPostService(servicetest.NewPosts(), servicetest.NewComments(), sanitizer, lgr)

	router := gin.New()
	SetupRouter(router, Dependencies{
		AuthController:    controllers.NewAuthController(authSvc, lgr),
		AdminController:   controllers.NewAdminController(adminSvc, lgr),
		PostController:    controllers.NewPostController(postSvc, lgr),
		ProfileController: controllers.NewProfileController(profileSvc, connSvc, lgr),
		HealthController:  controllers.NewHealthController(pinger),
		UserAuth:          middleware.NewAuthMiddleware(userSessions, authSvc.LoadUser),
		AdminAuth:         middleware.NewAuthMiddleware(adminSessions, adminSvc.LoadAdmin),
	})

	return &testAPI{router: router, admin: adminSvc}
}

type response struct {
	Status  int
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Raw     string
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	resp := response{Status: w.Code, Raw: w.Body.String()}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), resp.Raw)
	return resp
}

func (a *testAPI) signup(t *testing.T, first, email, mobile string) (token string, id int64) {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/user/signup", "", gin.H{
		"first_name":    first,
		"last_name":     "Test",
		"mobile_number": mobile,
		"email":         email,
		"college_email": "college." + email,
		"password":      "pw123456",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token, data.User.ID
}

func TestHealth(t *testing.T) {
	up := newTestAPI(t, stubPinger{})
	assert.Equal(t, http.StatusOK, up.do(t, http.MethodGet, "/api/health", "", nil).Status)

	down := newTestAPI(t, stubPinger{err: errors.New("no route to host")})
	resp := down.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.True(t, resp.Error)
}

func TestUserAuthFlow(t *testing.T) {
	api := newTestAPI(t, stubPinger{})

	resp := api.do(t, http.MethodPost, "/api/user/signup", "", gin.H{
		"first_name": "Asha", "last_name": "Rao", "mobile_number": "9876543210",
		"email": "Asha@X.com", "college_email": "asha@college.edu", "password": "pw123456", "is_alumni": true,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	assert.Equal(t, "Signup Successful. Welcome aboard!", resp.Message)
	assert.NotContains(t, resp.Raw, "password")
	assert.NotContains(t, resp.Raw, "pw123456")

	dup := api.do(t, http.MethodPost, "/api/user/signup", "", gin.H{
		"first_name": "Asha", "last_name": "Rao", "mobile_number": "9876543210",
		"email": "asha@x.com", "college_email": "asha@college.edu", "password": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, dup.Status)

	login := api.do(t, http.MethodPost, "/api/user/login", "", gin.H{"email": "asha@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, login.Status, login.Raw)
	assert.Equal(t, "Login Successful. Welcome back!", login.Message)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Data, &session))
	require.NotEmpty(t, session.Token)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/profile", session.Token, nil).Status)

	logout := api.do(t, http.MethodPost, "/api/user/logout", session.Token, nil)
	require.Equal(t, http.StatusOK, logout.Status)
	assert.Equal(t, "Logout Successful. Have a great day!", logout.Message)

	// token row is gone
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/profile", session.Token, nil).Status)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/posts", "", nil).Status)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	ctx := context.Background()
	_, err := api.admin.CreateAdmin(ctx, dto.AdminCredentialsRequest{Username: "root", Password: "s3cret"})
	require.NoError(t, err)

	login := api.do(t, http.MethodPost, "/api/admin/login", "", gin.H{"username": "root", "password": "s3cret"})
	require.Equal(t, http.StatusOK, login.Status, login.Raw)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Data, &data))

	created := api.do(t, http.MethodPost, "/api/admin/createAdmin", data.Token, gin.H{"username": "ops", "password": "pw"})
	assert.Equal(t, http.StatusCreated, created.Status, created.Raw)

	// user tokens are not admin tokens
	userToken, _ := api.signup(t, "Asha", "a@x.com", "9000000001")
	denied := api.do(t, http.MethodPost, "/api/admin/createAdmin", userToken, gin.H{"username": "x", "password": "y"})
	assert.Equal(t, http.StatusUnauthorized, denied.Status)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/admin/logout", data.Token, nil).Status)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/api/admin/logout", data.Token, nil).Status)
}

func TestConnectionFlow(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	aliceToken, aliceID := api.signup(t, "Alice", "alice@x.com", "9000000001")
	bobToken, bobID := api.signup(t, "Bob", "bob@x.com", "9000000002")

	req := api.do(t, http.MethodPost, fmt.Sprintf("/api/profile/connect/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, req.Status, req.Raw)
	assert.Equal(t, services.MsgConnectionRequested, req.Message)

	again := api.do(t, http.MethodPost, fmt.Sprintf("/api/profile/connect/%d", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, again.Status)

	self := api.do(t, http.MethodPost, fmt.Sprintf("/api/profile/connect/%d", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, self.Status)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/profile/connect/999", aliceToken, nil).Status)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/api/profile/connect/abc", aliceToken, nil).Status)

	pending := api.do(t, http.MethodGet, "/api/profile/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, pending.Status)
	var requests []struct {
		ID                 int64  `json:"id"`
		RequesterFirstName string `json:"requester_first_name"`
	}
	require.NoError(t, json.Unmarshal(pending.Data, &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, "Alice", requests[0].RequesterFirstName)

	// a reciprocal request accepts the pending one
	accept := api.do(t, http.MethodPost, fmt.Sprintf("/api/profile/connect/%d", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, accept.Status, accept.Raw)
	assert.Equal(t, services.MsgConnectionAccepted, accept.Message)

	conns := api.do(t, http.MethodGet, "/api/profile/connections", aliceToken, nil)
	require.Equal(t, http.StatusOK, conns.Status)
	var connected []struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(conns.Data, &connected))
	require.Len(t, connected, 1)
	assert.Equal(t, bobID, connected[0].UserID)

	empty := api.do(t, http.MethodGet, "/api/profile/requests", bobToken, nil)
	assert.JSONEq(t, `[]`, string(empty.Data))
}

func TestRespondConnection(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	aliceToken, _ := api.signup(t, "Alice", "alice@x.com", "9000000001")
	bobToken, bobID := api.signup(t, "Bob", "bob@x.com", "9000000002")

	req := api.do(t, http.MethodPost, fmt.Sprintf("/api/profile/connect/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, req.Status)
	var conn struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(req.Data, &conn))

	path := fmt.Sprintf("/api/profile/connect/%d", conn.ID)

	// only the addressee may respond
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPut, path, aliceToken, gin.H{"action": "accept"}).Status)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPut, path, bobToken, gin.H{"action": "maybe"}).Status)

	rejected := api.do(t, http.MethodPut, path, bobToken, gin.H{"action": "reject"})
	require.Equal(t, http.StatusOK, rejected.Status, rejected.Raw)
	assert.Equal(t, services.MsgConnectionRejected, rejected.Message)
}

func TestProfileRoutes(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	aliceToken, _ := api.signup(t, "Alice", "alice@x.com", "9000000001")
	bobToken, bobID := api.signup(t, "Bob", "bob@x.com", "9123456789")

	updated := api.do(t, http.MethodPut, "/api/profile", bobToken, gin.H{"bio": "Backend dev", "current_company": "Acme"})
	require.Equal(t, http.StatusOK, updated.Status, updated.Raw)

	seen := api.do(t, http.MethodGet, fmt.Sprintf("/api/profile/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, seen.Status, seen.Raw)
	assert.NotContains(t, seen.Raw, "mobile_number")
	assert.NotContains(t, seen.Raw, "9123456789")
	assert.NotContains(t, seen.Raw, "password")

	var page struct {
		User struct {
			ID           int64  `json:"id"`
			FirstName    string `json:"first_name"`
			CollegeEmail string `json:"college_email"`
		} `json:"user"`
		Profile struct {
			Bio            string `json:"bio"`
			CurrentCompany string `json:"current_company"`
		} `json:"profile"`
		ConnectionStatus *string `json:"connection_status"`
	}
	require.NoError(t, json.Unmarshal(seen.Data, &page))
	assert.Equal(t, bobID, page.User.ID)
	assert.Equal(t, "Bob", page.User.FirstName)
	assert.Equal(t, "college.bob@x.com", page.User.CollegeEmail)
	assert.Equal(t, "Backend dev", page.Profile.Bio)
	assert.Equal(t, "Acme", page.Profile.CurrentCompany)
	assert.Nil(t, page.ConnectionStatus)

	own := api.do(t, http.MethodGet, "/api/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, own.Status)
	assert.NotContains(t, own.Raw, "mobile_number")

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/profile/999", aliceToken, nil).Status)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/profile/connections/999", aliceToken, nil).Status)
}

func TestListPosts_MalformedQueryFallsBack(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	token, _ := api.signup(t, "Alice", "alice@x.com", "9000000001")

	resp := api.do(t, http.MethodGet, "/api/posts?page=abc&limit=xyz&type=unknown", token, nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)

	var feed dto.PostListResponse
	require.NoError(t, json.Unmarshal(resp.Data, &feed))
	assert.Equal(t, 1, feed.Pagination.Page)
	assert.Equal(t, 10, feed.Pagination.Limit)
	assert.Empty(t, feed.Posts)
}

func TestPostRoutes(t *testing.T) {
	api := newTestAPI(t, stubPinger{})
	token, _ := api.signup(t, "Alice", "alice@x.com", "9000000001")
	otherToken, _ := api.signup(t, "Bob", "bob@x.com", "9000000002")

	badJob := api.do(t, http.MethodPost, "/api/posts", token, gin.H{"content": "Hiring", "post_type": "job"})
	require.Equal(t, http.StatusBadRequest, badJob.Status)
	var fields struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(badJob.Data, &fields))
	assert.Contains(t, fields.Fields, "company_name")
	assert.Contains(t, fields.Fields, "position")

	created := api.do(t, http.MethodPost, "/api/posts", token, gin.H{
		"content": "Hiring backend engineers", "post_type": "job",
		"company_name": "Acme", "position": "Backend Engineer", "deadline": "2030-01-31",
	})
	require.Equal(t, http.StatusCreated, created.Status, created.Raw)
	var post struct {
		ID         int64  `json:"id"`
		PostType   string `json:"post_type"`
		JobDetails *struct {
			CompanyName string `json:"company_name"`
		} `json:"job_details"`
	}
	require.NoError(t, json.Unmarshal(created.Data, &post))
	assert.Equal(t, "job", post.PostType)
	require.NotNil(t, post.JobDetails)
	assert.Equal(t, "Acme", post.JobDetails.CompanyName)

	list := api.do(t, http.MethodGet, "/api/posts?type=job&limit=5", otherToken, nil)
	require.Equal(t, http.StatusOK, list.Status, list.Raw)
	assert.Contains(t, list.Raw, "Hiring backend engineers")

	postPath := fmt.Sprintf("/api/posts/%d", post.ID)

	like := api.do(t, http.MethodPost, postPath+"/like", otherToken, nil)
	require.Equal(t, http.StatusOK, like.Status)
	assert.Equal(t, "Post liked successfully", like.Message)
	unlike := api.do(t, http.MethodPost, postPath+"/like", otherToken, nil)
	assert.Equal(t, "Post unliked successfully", unlike.Message)

	comment := api.do(t, http.MethodPost, postPath+"/comment", otherToken, gin.H{"content": "Congrats!"})
	require.Equal(t, http.StatusCreated, comment.Status, comment.Raw)

	// only the author may edit or delete
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPut, postPath, otherToken, gin.H{"content": "mine now"}).Status)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, postPath, otherToken, nil).Status)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, postPath, token, nil).Status)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, postPath, token, nil).Status)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/posts/999/like", token, nil).Status)
}

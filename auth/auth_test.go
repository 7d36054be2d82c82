package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Yulian302/taskflow-gateway/auth/handlers"
	"github.com/Yulian302/taskflow-gateway/auth/oauth"
	"github.com/Yulian302/taskflow-gateway/auth/types"
	"github.com/Yulian302/taskflow-gateway/config"
	apperror "github.com/Yulian302/taskflow-gateway/errors"
	jwttypes "github.com/Yulian302/taskflow-gateway/jwt"
	"github.com/Yulian302/taskflow-gateway/routers"
	"github.com/Yulian302/taskflow-gateway/services"
	"github.com/Yulian302/taskflow-gateway/store"
	"github.com/Yulian302/taskflow-gateway/test"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router     *gin.Engine
	users      store.UserStore
	tokens     *jwttypes.TokenIssuer
	tokenCalls *atomic.Int32
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newFixture(t *testing.T, tokenHandler, userHandler http.HandlerFunc) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var tokenCalls atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		tokenHandler(w, r)
	}))
	t.Cleanup(tokenSrv.Close)
	userSrv := httptest.NewServer(userHandler)
	t.Cleanup(userSrv.Close)

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Shutdown(context.Background()) })

	provider := oauth.NewGoogleProvider(&config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		ExchangeURL:  tokenSrv.URL,
		UserInfoURL:  userSrv.URL,
		Timeout:      time.Second,
	}, nil)
	tokens := jwttypes.NewTokenIssuer(strings.Repeat("a", 32), strings.Repeat("r", 32), time.Minute, time.Hour)
	authSvc := services.NewAuthServiceImpl(provider, db.Users(), tokens)

	r := gin.New()
	routers.RegisterAuthRoutes(handlers.NewGoogleHandler(authSvc), handlers.NewUserHandler(authSvc), tokens, r)

	return &fixture{router: r, users: db.Users(), tokens: tokens, tokenCalls: &tokenCalls}
}

func login(t *testing.T, f *fixture, body any) *httptest.ResponseRecorder {
	return test.PerformRequest(t, f.router, http.MethodPost, "/auth/google/", test.JSONBody(t, body), "")
}

var validBody = map[string]string{"code": "abc123", "redirect_uri": "https://app.example.com/cb"}

func TestGoogleLogin_EndToEnd(t *testing.T) {
	f := newFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "abc123", r.PostForm.Get("code"))
			assert.Equal(t, "https://app.example.com/cb", r.PostForm.Get("redirect_uri"))
			jsonHandler(http.StatusOK, `{"access_token":"tok_1","token_type":"Bearer"}`)(w, r)
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok_1", r.Header.Get("Authorization"))
			jsonHandler(http.StatusOK, `{"email":"a@x.com","given_name":"A"}`)(w, r)
		},
	)

	w := login(t, f, validBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.LoginResponse
	test.DecodeJSON(t, w, &resp)
	assert.Equal(t, types.UserInfo{Email: "a@x.com", FirstName: "A", LastName: ""}, resp.User)
	assert.Contains(t, w.Body.String(), `"last_name":""`)

	stored, err := f.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Username)

	me := test.PerformRequest(t, f.router, http.MethodGet, "/auth/user/", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, me.Code)
	assert.JSONEq(t, `{"email":"a@x.com","first_name":"A","last_name":""}`, me.Body.String())

	logout := test.PerformRequest(t, f.router, http.MethodPost, "/auth/logout/", nil, resp.AccessToken)
	assert.Equal(t, http.StatusOK, logout.Code)
}

func TestGoogleLogin_ErrorBodies(t *testing.T) {
	okToken := jsonHandler(http.StatusOK, `{"access_token":"tok_1"}`)
	okUser := jsonHandler(http.StatusOK, `{"email":"a@x.com"}`)

	tests := []struct {
		name       string
		body       any
		token      http.HandlerFunc
		user       http.HandlerFunc
		wantStatus int
		wantBody   string
		wantCalls  int32
	}{
		{
			name:       "missing code",
			body:       map[string]string{"redirect_uri": "https://app.example.com/cb"},
			token:      okToken,
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Code is required"}`,
		},
		{
			name:       "missing redirect uri",
			body:       map[string]string{"code": "abc123"},
			token:      okToken,
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"redirect_uri is required","hint":"Make sure frontend sends redirect_uri in request body"}`,
		},
		{
			name:       "malformed body",
			body:       "not an object",
			token:      okToken,
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Code is required"}`,
		},
		{
			name:       "exchange rejected",
			body:       validBody,
			token:      jsonHandler(http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Bad Request"}`),
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Failed to exchange code with Google","details":{"error":"invalid_grant","error_description":"Bad Request"}}`,
			wantCalls:  1,
		},
		{
			name:       "exchange empty body",
			body:       validBody,
			token:      jsonHandler(http.StatusUnauthorized, ``),
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Failed to exchange code with Google","details":"Unknown error"}`,
			wantCalls:  1,
		},
		{
			name:       "no access token",
			body:       validBody,
			token:      jsonHandler(http.StatusOK, `{"token_type":"Bearer"}`),
			user:       okUser,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"No access token received from Google"}`,
			wantCalls:  1,
		},
		{
			name:       "profile rejected",
			body:       validBody,
			token:      okToken,
			user:       jsonHandler(http.StatusUnauthorized, `{"error":"invalid_token"}`),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Failed to get user info from Google"}`,
			wantCalls:  1,
		},
		{
			name:       "missing email",
			body:       validBody,
			token:      okToken,
			user:       jsonHandler(http.StatusOK, `{"given_name":"A"}`),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Email not provided by Google"}`,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.token, tt.user)

			w := login(t, f, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, tt.wantCalls, f.tokenCalls.Load())

			_, err := f.users.GetByEmail(context.Background(), "a@x.com")
			assert.ErrorIs(t, err, apperror.ErrUserNotFound)
		})
	}
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	f := newFixture(t,
		jsonHandler(http.StatusOK, `{"access_token":"tok_1"}`),
		jsonHandler(http.StatusOK, `{"email":"a@x.com"}`),
	)

	w := login(t, f, validBody)
	require.Equal(t, http.StatusOK, w.Code)
	var resp types.LoginResponse
	test.DecodeJSON(t, w, &resp)

	other := jwttypes.NewTokenIssuer(strings.Repeat("x", 32), strings.Repeat("y", 32), time.Minute, time.Hour)
	forged, err := other.Issue("a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", `{"error":"unauthorized"}`},
		{"garbage", "not-a-jwt", `{"error":"invalid_token"}`},
		{"refresh token", resp.RefreshToken, `{"error":"invalid token type"}`},
		{"other key", forged.AccessToken, `{"error":"invalid_token"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := test.PerformRequest(t, f.router, http.MethodGet, "/auth/user/", nil, tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestMe_UserMissing(t *testing.T) {
	f := newFixture(t, jsonHandler(http.StatusOK, `{}`), jsonHandler(http.StatusOK, `{}`))

	pair, err := f.tokens.Issue("ghost@x.com")
	require.NoError(t, err)

	w := test.PerformRequest(t, f.router, http.MethodGet, "/auth/user/", nil, pair.AccessToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

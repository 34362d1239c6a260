package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/warbler/internal/api/handler"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/internal/session"
	"github.com/d60-Lab/warbler/internal/testutil"
	"github.com/d60-Lab/warbler/pkg/credential"
	"github.com/d60-Lab/warbler/pkg/database"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	tokens := session.NewTokenManager("test-secret", time.Hour, "warbler")
	store := session.NewRedisStore(rdb)

	h := handler.New(handler.Deps{
		Accounts:      service.NewAccountService(users, credential.NewHasher(bcrypt.MinCost), service.ProfileDefaults{ImageURL: "/default.png"}),
		Relationships: service.NewRelationshipService(repository.NewFollowRepository(db), users),
		Content:       service.NewContentService(messages, repository.NewLikeRepository(db), users),
		Feed:          service.NewFeedService(messages, users, service.FeedLimits{Default: 100, Max: 100}),
		Tokens:        tokens,
		Sessions:      store,
	})
	r := Setup(h, Options{
		Mode:        gin.TestMode,
		ServiceName: "warbler-test",
		Tokens:      tokens,
		Sessions:    store,
		Ping:        func() error { return database.Ping(db) },
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		ImageURL string `json:"image_url"`
	} `json:"user"`
}

func (a *api) signup(name string) authData {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": name, "email": name + "@example.com", "password": "pw-" + name,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var d authData
	require.NoError(a.t, json.Unmarshal(env.Data, &d))
	return d
}

func TestHealthAndHeaders(t *testing.T) {
	a := newAPI(t)
	w, env := a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Message)
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodGet, "/healthz", "", nil)

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warbler_http_requests_total")
}

func TestSignupLoginLogout(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice")
	assert.NotEmpty(t, alice.Token)
	assert.Equal(t, "/default.png", alice.User.ImageURL)

	w, env := a.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": "alice", "email": "x@example.com", "password": "pw",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"field":"username"}`, string(env.Data))

	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "ghost", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "pw-alice"})
	require.Equal(t, http.StatusOK, w.Code)
	var login authData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, alice.User.ID, login.User.ID)
	assert.NotContains(t, string(env.Data), "password")

	w, _ = a.do(http.MethodGet, "/api/v1/feed", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/v1/feed", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 其他会话不受影响
	w, _ = a.do(http.MethodGet, "/api/v1/feed", alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	a := newAPI(t)
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/feed"},
		{http.MethodPost, "/api/v1/messages"},
		{http.MethodPost, "/api/v1/users/follow/x"},
		{http.MethodPut, "/api/v1/users/profile"},
		{http.MethodDelete, "/api/v1/users/profile"},
	} {
		w, _ := a.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)
	}
}

func TestMessagesFollowFeedFlow(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice")
	bob := a.signup("bob")

	w, env := a.do(http.MethodPost, "/api/v1/messages", bob.Token, gin.H{"text": "hello from bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	var msg struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))

	w, _ = a.do(http.MethodPost, "/api/v1/messages", bob.Token, gin.H{"text": strings.Repeat("x", 141)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/users/follow/"+bob.User.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodPost, "/api/v1/users/follow/"+alice.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = a.do(http.MethodPost, "/api/v1/users/follow/unknown", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodGet, "/api/v1/feed", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		List []struct {
			ID    string `json:"id"`
			Text  string `json:"text"`
			Liked bool   `json:"liked"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.List, 1)
	assert.Equal(t, "bob", feed.List[0].User.Username)
	assert.False(t, feed.List[0].Liked)

	w, env = a.do(http.MethodPost, fmt.Sprintf("/api/v1/messages/%s/like", msg.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true}`, string(env.Data))

	_, env = a.do(http.MethodGet, "/api/v1/feed", alice.Token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.True(t, feed.List[0].Liked)

	w, _ = a.do(http.MethodPost, fmt.Sprintf("/api/v1/messages/%s/like", msg.ID), bob.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/messages/"+msg.ID, alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(http.MethodGet, "/api/v1/users/"+bob.User.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Messages []json.RawMessage `json:"messages"`
		Counts   struct {
			Messages  int `json:"messages"`
			Followers int `json:"followers"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Len(t, profile.Messages, 1)
	assert.Equal(t, 1, profile.Counts.Followers)

	w, _ = a.do(http.MethodGet, "/api/v1/users/"+bob.User.ID+"/followers", alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/messages/"+msg.ID, bob.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/v1/messages/"+msg.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/users/stop-following/"+bob.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEditAndDeleteAccount(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice")
	a.signup("bob")

	w, _ := a.do(http.MethodPut, "/api/v1/users/profile", alice.Token, gin.H{"bio": "hi", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := a.do(http.MethodPut, "/api/v1/users/profile", alice.Token, gin.H{"email": "bob@example.com", "password": "pw-alice"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"field":"email"}`, string(env.Data))

	w, _ = a.do(http.MethodPut, "/api/v1/users/profile", alice.Token, gin.H{"bio": "hi", "password": "pw-alice"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/users/profile", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodGet, "/api/v1/feed", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = a.do(http.MethodGet, "/api/v1/users/"+alice.User.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsers(t *testing.T) {
	a := newAPI(t)
	a.signup("alice")
	a.signup("bob")

	w, env := a.do(http.MethodGet, "/api/v1/users?q=bo", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List []struct {
			Username string `json:"username"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.List, 1)
	assert.Equal(t, "bob", page.List[0].Username)
}

func TestEmailVisibleOnlyToOwner(t *testing.T) {
	a := newAPI(t)
	alice := a.signup("alice")
	bob := a.signup("bob")

	// 本人的注册/登录与修改资料响应包含 email
	_, env := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "pw-alice"})
	assert.Contains(t, string(env.Data), "alice@example.com")
	_, env = a.do(http.MethodPut, "/api/v1/users/profile", alice.Token, gin.H{"bio": "hello", "password": "pw-alice"})
	assert.Contains(t, string(env.Data), `"email":"alice@example.com"`)

	w, env := a.do(http.MethodPost, "/api/v1/messages", alice.Token, gin.H{"text": "public post"})
	require.Equal(t, http.StatusCreated, w.Code)
	var msg struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	w, _ = a.do(http.MethodPost, "/api/v1/users/follow/"+alice.User.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, rt := range []struct{ path, token string }{
		{"/api/v1/users", ""},
		{"/api/v1/users?q=ali", ""},
		{"/api/v1/users/" + alice.User.ID, ""},
		{"/api/v1/messages/" + msg.ID, ""},
		{"/api/v1/feed", bob.Token},
		{"/api/v1/users/" + alice.User.ID + "/followers", bob.Token},
	} {
		w, _ := a.do(http.MethodGet, rt.path, rt.token, nil)
		require.Equal(t, http.StatusOK, w.Code, rt.path)
		assert.NotContains(t, w.Body.String(), "@example.com", rt.path)
		assert.NotContains(t, w.Body.String(), `"email"`, rt.path)
	}
}

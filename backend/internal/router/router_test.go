package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/bbs/backend/internal/setup"
	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/config"
	mw "github.com/itchan-dev/bbs/shared/middleware"
)

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(setup.SetupDependencies(config.Default())))
	t.Cleanup(srv.Close)
	return srv
}

func newAPIClient(t *testing.T, srv *httptest.Server) *apiClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body any) (int, api.Envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env api.Envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *apiClient) login(id, password string) {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/user/login", api.LoginRequest{Id: id, Password: password})
	require.Equal(c.t, http.StatusOK, status, env.Message)
}

func register(t *testing.T, c *apiClient, id string) {
	t.Helper()
	status, env := c.do(http.MethodPost, "/api/user/register", api.RegisterRequest{Id: id, Password: "password", Email: id + "@example.com"})
	require.Equal(t, http.StatusOK, status, env.Message)
}

func TestBoardFlow(t *testing.T) {
	srv := newServer(t)
	alice := newAPIClient(t, srv)
	bob := newAPIClient(t, srv)
	anon := newAPIClient(t, srv)

	register(t, alice, "alice")
	register(t, bob, "bob")
	alice.login("alice", "password")
	bob.login("bob", "password")

	// writing needs a session
	status, env := anon.do(http.MethodPost, "/api/board", api.BoardRequest{Title: "t", Content: "c"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, mw.MsgLoginRequired, env.Message)

	status, env = alice.do(http.MethodPost, "/api/board", api.BoardRequest{Title: "hello", Content: "world"})
	require.Equal(t, http.StatusOK, status, env.Message)
	idx, ok := api.CreatedBoardIdx(env.Data)
	require.True(t, ok)

	status, env = anon.do(http.MethodGet, "/api/board?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, status)
	page, err := api.DecodeBoardList(env.Data, 1, 10)
	require.NoError(t, err)
	assert.True(t, page.TotalsKnown)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice", page.Items[0].OwnerId)

	path := "/api/board/" + jsonNumber(idx)

	status, env = bob.do(http.MethodPut, path, api.BoardRequest{Title: "mine now", Content: "x"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	status, _ = alice.do(http.MethodPut, path, api.BoardRequest{Title: "hello again", Content: "world"})
	assert.Equal(t, http.StatusOK, status)

	status, env = anon.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "hello again")

	status, _ = bob.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = alice.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, status)
	status, env = anon.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "post not found", env.Message)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newServer(t)
	alice := newAPIClient(t, srv)
	register(t, alice, "alice")
	alice.login("alice", "password")

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	var token string
	for _, c := range alice.client.Jar.Cookies(u) {
		if c.Name == mw.CookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	status, env := alice.do(http.MethodPost, "/api/user/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	// a copy of the old token is rejected too
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/board", bytes.NewBufferString(`{"title":"t","content":"c"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// logging out twice is fine
	status, _ = alice.do(http.MethodPost, "/api/user/logout", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginErrors(t *testing.T) {
	srv := newServer(t)
	c := newAPIClient(t, srv)
	register(t, c, "alice")

	status, env := c.do(http.MethodPost, "/api/user/login", api.LoginRequest{Id: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "wrong id or password", env.Message)

	status, env = c.do(http.MethodPost, "/api/user/register", api.RegisterRequest{Id: "alice", Password: "password", Email: "x@example.com"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "id already taken", env.Message)
}

func TestListHugePage(t *testing.T) {
	srv := newServer(t)
	c := newAPIClient(t, srv)

	status, env := c.do(http.MethodGet, "/api/board?page=1152921504606846977&size=10", nil)

	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	page, err := api.DecodeBoardList(env.Data, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestHealthAndHeaders(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

func jsonNumber(idx int64) string {
	b, _ := json.Marshal(idx)
	return string(b)
}

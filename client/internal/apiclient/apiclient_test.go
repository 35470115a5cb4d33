package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/bbs/shared/api"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/middleware/metrics"
)

type MockHTTPClient struct {
	MockDo func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.MockDo != nil {
		return m.MockDo(req)
	}
	return nil, errors.New("no response configured")
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

// newTestClient serves every request with handler and returns a client on it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 0, nil)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	t.Run("success envelope", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusOK, `{"success":true,"message":"ok","data":{"a":1}}`))

		env, err := c.Call(ctx, http.MethodGet, "/api/board/1", nil)

		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.Equal(t, "ok", env.Message)
		assert.JSONEq(t, `{"a":1}`, string(env.Data))
		assert.Equal(t, http.StatusOK, env.Status)
	})

	t.Run("failure envelope is not an error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusBadRequest, `{"success":false,"message":"title too long"}`))

		env, err := c.Call(ctx, http.MethodPost, "/api/board", api.BoardRequest{Title: "t", Content: "c"})

		require.NoError(t, err)
		assert.False(t, env.Success)
		assert.Equal(t, http.StatusBadRequest, env.Status)
		assert.EqualError(t, env.Err(c.classifier, "default"), "title too long")
	})

	t.Run("missing success counts as success", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusOK, `{"message":"hm","data":[]}`))

		env, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.NoError(t, env.Err(c.classifier, "default"))
	})

	t.Run("html body is a parse error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusBadGateway, `<html>502 Bad Gateway</html>`))

		env, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		assert.Nil(t, env)
		pErr, ok := internal_errors.As[*internal_errors.ParseError](err)
		require.True(t, ok, "expected ParseError, got %T", err)
		assert.Equal(t, `<html>502 Bad Gateway</html>`, pErr.Raw)
	})

	t.Run("empty body is a parse error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusOK, ``))

		_, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		assert.True(t, internal_errors.Is[*internal_errors.ParseError](err))
	})

	t.Run("json array is a parse error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusOK, `[1,2,3]`))

		_, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		assert.True(t, internal_errors.Is[*internal_errors.ParseError](err))
	})

	t.Run("transport error", func(t *testing.T) {
		cause := errors.New("connection refused")
		c := NewWithHTTPClient("http://example.invalid", &MockHTTPClient{
			MockDo: func(req *http.Request) (*http.Response, error) { return nil, cause },
		}, nil)

		env, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		assert.Nil(t, env)
		assert.True(t, internal_errors.Is[*internal_errors.TransportError](err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("body read failure is a transport error", func(t *testing.T) {
		c := NewWithHTTPClient("http://example.invalid", &MockHTTPClient{
			MockDo: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: failingBody{}}, nil
			},
		}, nil)

		_, err := c.Call(ctx, http.MethodGet, "/api/board", nil)

		assert.True(t, internal_errors.Is[*internal_errors.TransportError](err))
	})

	t.Run("cancelled context is a transport error", func(t *testing.T) {
		c := newTestClient(t, respond(http.StatusOK, `{"success":true}`))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Call(cancelled, http.MethodGet, "/api/board", nil)

		assert.True(t, internal_errors.Is[*internal_errors.TransportError](err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCall_Headers(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		respond(http.StatusOK, `{"success":true}`)(w, r)
	})

	t.Run("with body", func(t *testing.T) {
		_, err := c.Call(context.Background(), http.MethodPut, "/api/board/9", api.BoardRequest{Title: "t", Content: "c"})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPut, got.Method)
		assert.Equal(t, "/api/board/9", got.URL.Path)
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", got.Header.Get("Accept"))
		assert.NotEmpty(t, got.Header.Get("X-Request-Id"))
		assert.JSONEq(t, `{"title":"t","content":"c"}`, string(gotBody))
	})

	t.Run("without body", func(t *testing.T) {
		_, err := c.Call(context.Background(), http.MethodDelete, "/api/board/9", nil)
		require.NoError(t, err)

		assert.Empty(t, got.Header.Get("Content-Type"))
		assert.Empty(t, gotBody)
	})
}

func TestCall_Metrics(t *testing.T) {
	c := newTestClient(t, respond(http.StatusForbidden, `{"success":false,"message":"only the author can modify this post"}`))
	counter := metrics.ClientRequestsTotal.WithLabelValues(http.MethodDelete, "/api/board/{idx}", metrics.OutcomeAppError)
	before := testutil.ToFloat64(counter)

	_, err := c.Call(context.Background(), http.MethodDelete, "/api/board/123", nil)

	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRouteOf(t *testing.T) {
	tests := map[string]string{
		"/api/board?page=2&size=10": "/api/board",
		"/api/board/42":             "/api/board/{idx}",
		"/api/board/42/comments":    "/api/board/{idx}/comments",
		"/api/user/login":           "/api/user/login",
	}
	for path, expected := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, expected, routeOf(path))
		})
	}
}

func TestNewWithHTTPClient_TrimsBaseURL(t *testing.T) {
	c := NewWithHTTPClient("http://localhost:8080/", &MockHTTPClient{}, nil)
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
}

// decodeJSON is shared by the auth and board tests.
func decodeJSON(t *testing.T, r *http.Request, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(out))
}

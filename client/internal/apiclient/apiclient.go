package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itchan-dev/bbs/shared/api"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/middleware/metrics"
)

// Default failure messages, used when a failed envelope has no message.
const (
	MsgLoginFailed    = "login failed"
	MsgRegisterFailed = "registration failed"
	MsgLogoutFailed   = "logout failed"
	MsgListFailed     = "failed to load posts"
	MsgGetFailed      = "failed to load post"
	MsgCreateFailed   = "failed to create post"
	MsgUpdateFailed   = "failed to update post"
	MsgDeleteFailed   = "failed to delete post"
)

const rawSnippetLen = 200

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient handles all communication with the board API.
// One attempt per call: nothing here is retried.
type APIClient struct {
	BaseURL    string
	HttpClient httpClient
	classifier *internal_errors.Classifier
}

// New creates a client with a cookie jar, so the session cookie set by login
// is sent on later calls. timeout 0 means no client timeout.
func New(baseURL string, timeout time.Duration, classifier *internal_errors.Classifier) *APIClient {
	jar, _ := cookiejar.New(nil) // only fails on a bad PublicSuffixList, none given
	return NewWithHTTPClient(baseURL, &http.Client{Jar: jar, Timeout: timeout}, classifier)
}

func NewWithHTTPClient(baseURL string, client httpClient, classifier *internal_errors.Classifier) *APIClient {
	if classifier == nil {
		classifier = internal_errors.NewClassifier(nil)
	}
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: client,
		classifier: classifier,
	}
}

// Call sends one request and parses the envelope. A success:false envelope is
// a normal result. Errors are *TransportError or *ParseError only.
func (c *APIClient) Call(ctx context.Context, method, path string, body any) (*api.Envelope, error) {
	route := routeOf(path)
	start := time.Now()

	env, outcome, err := c.call(ctx, method, path, body)
	metrics.ObserveCall(method, route, outcome, time.Since(start))

	switch outcome {
	case metrics.OutcomeTransportError:
		logger.Log.Error("api call failed", "method", method, "path", path, "error", err)
	case metrics.OutcomeParseError:
		raw := ""
		var pErr *internal_errors.ParseError
		if errors.As(err, &pErr) {
			raw = pErr.Snippet(rawSnippetLen)
		}
		logger.Log.Error("api returned invalid body", "method", method, "path", path, "error", err, "raw", raw)
	case metrics.OutcomeAppError:
		logger.Log.Debug("api call unsuccessful", "method", method, "path", path, "status", env.Status, "message", env.Message)
	}
	return env, err
}

func (c *APIClient) call(ctx context.Context, method, path string, body any) (*api.Envelope, string, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, metrics.OutcomeTransportError, &internal_errors.TransportError{Op: op, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, metrics.OutcomeTransportError, &internal_errors.TransportError{Op: op, Err: fmt.Errorf("failed to create API request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, metrics.OutcomeTransportError, &internal_errors.TransportError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, metrics.OutcomeTransportError, &internal_errors.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	env, err := parseEnvelope(raw)
	if err != nil {
		return nil, metrics.OutcomeParseError, err
	}
	env.Status = resp.StatusCode
	if !env.Success {
		return env, metrics.OutcomeAppError, nil
	}
	return env, metrics.OutcomeOK, nil
}

func parseEnvelope(raw []byte) (*api.Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &internal_errors.ParseError{Raw: string(raw), Err: fmt.Errorf("expected a JSON object")}
	}
	var env api.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &internal_errors.ParseError{Raw: string(raw), Err: err}
	}
	return &env, nil
}

// decodeData reads the data of a successful envelope into out.
func decodeData(env *api.Envelope, out any) error {
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &internal_errors.ParseError{Raw: string(env.Data), Err: err}
	}
	return nil
}

// routeOf strips the query and replaces ids so metric labels stay bounded.
func routeOf(path string) string {
	path, _, _ = strings.Cut(path, "?")
	return numericSegment.ReplaceAllString(path, "/{idx}$1")
}

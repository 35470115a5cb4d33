package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrBusy is returned when a controller is asked to start an operation while
// another one is still in flight.
var ErrBusy = errors.New("another request is in progress")

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ValidationError is produced locally and never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError means the request could not complete (dns, connect, read).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unavailable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the response body was not a JSON envelope.
// Raw keeps the body text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Snippet returns Raw cut to n bytes, for logs.
func (e *ParseError) Snippet(n int) string {
	if len(e.Raw) <= n {
		return e.Raw
	}
	return e.Raw[:n] + "..."
}

// ApplicationError is a success:false envelope.
type ApplicationError struct {
	Status  int
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// AuthExpiredError is an ApplicationError telling that the server does not
// consider the client logged in.
type AuthExpiredError struct {
	*ApplicationError
}

func (e *AuthExpiredError) Unwrap() error { return e.ApplicationError }

// LogoutWarning wraps a failed logout call. Local state is cleared anyway.
type LogoutWarning struct {
	Err error
}

func (e *LogoutWarning) Error() string {
	return fmt.Sprintf("logout request failed: %v", e.Err)
}

func (e *LogoutWarning) Unwrap() error { return e.Err }

// DefaultAuthMarkers are matched case-insensitively against failure messages.
var DefaultAuthMarkers = []string{"login", "로그인"}

// Classifier turns failure envelopes into ApplicationError or AuthExpiredError.
type Classifier struct {
	markers []string
}

func NewClassifier(markers []string) *Classifier {
	if len(markers) == 0 {
		markers = DefaultAuthMarkers
	}
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			lowered = append(lowered, m)
		}
	}
	return &Classifier{markers: lowered}
}

func (c *Classifier) Classify(status int, message string) error {
	appErr := &ApplicationError{Status: status, Message: message}
	if status == http.StatusUnauthorized {
		return &AuthExpiredError{appErr}
	}
	lower := strings.ToLower(message)
	for _, m := range c.markers {
		if strings.Contains(lower, m) {
			return &AuthExpiredError{appErr}
		}
	}
	return appErr
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// As returns the first error in err's chain of type T.
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// UserMessage picks the text shown to the user. Validation and application
// errors carry their own message; transport and parse failures collapse into
// fallback.
func UserMessage(err error, fallback string) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if errors.Is(err, ErrBusy) {
		return ErrBusy.Error()
	}
	return fallback
}

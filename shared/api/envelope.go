package api

import (
	"encoding/json"

	internal_errors "github.com/itchan-dev/bbs/shared/errors"
)

// Envelope is the wrapper every endpoint answers with.
// Status is the HTTP status of the response and is not part of the body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Status  int             `json:"-"`
}

// UnmarshalJSON treats a missing or null "success" as success. Only an
// explicit false marks a failure.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var aux struct {
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Success = aux.Success == nil || *aux.Success
	e.Message = aux.Message
	e.Data = aux.Data
	return nil
}

// Err returns nil for a successful envelope, otherwise an ApplicationError
// (or AuthExpiredError) carrying the server message or defaultMsg.
func (e *Envelope) Err(c *internal_errors.Classifier, defaultMsg string) error {
	if e.Success {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = defaultMsg
	}
	return c.Classify(e.Status, msg)
}

// HasData reports whether data is present and not JSON null.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Response is what the server writes. Data is encoded as is.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(data any, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

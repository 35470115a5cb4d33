package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/validation"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteOK writes a success envelope.
func WriteOK(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusOK, api.OK(data, message))
}

// WriteErrorAndStatusCode writes a failure envelope. Validation errors are
// 400, ErrorWithStatusCode keeps its status, everything else is a 500 with a
// generic message.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := errors.As[*errors.ValidationError](err); ok {
		WriteJSON(w, http.StatusBadRequest, api.Fail(e.Message))
		return
	}
	if e, ok := errors.As[*errors.ErrorWithStatusCode](err); ok {
		WriteJSON(w, e.StatusCode, api.Fail(e.Message))
		return
	}
	logger.Log.Error("internal error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, api.Fail("internal server error"))
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	return validation.Struct(body)
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "body is invalid json", StatusCode: http.StatusBadRequest}
	}
	return nil
}

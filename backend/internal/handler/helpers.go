package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/itchan-dev/bbs/shared/domain"
	"github.com/itchan-dev/bbs/shared/errors"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: fmt.Sprintf("invalid %s: must be an integer", paramName), StatusCode: http.StatusBadRequest}
	}
	return val, nil
}

// parseQueryInt returns def when the query parameter is absent.
func parseQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return parseIntParam(raw, name)
}

func parseIdx(raw string) (domain.BoardIdx, error) {
	idx, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || idx <= 0 {
		return 0, &errors.ErrorWithStatusCode{Message: "invalid idx: must be a positive integer", StatusCode: http.StatusBadRequest}
	}
	return idx, nil
}

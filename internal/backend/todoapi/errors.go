package todoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"todo/internal/service"
)

// wrapError maps transport and HTTP errors onto the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return statusError(gerr.Code, gerr.Body)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("cancelled")
	}
	return err
}

// statusError converts a non-2xx status and its body into an error.
func statusError(code int, body string) error {
	detail := detailFromBody(body)
	switch code {
	case http.StatusUnauthorized:
		if detail == "" {
			return service.ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, detail)
	case http.StatusNotFound:
		if detail == "" {
			return service.ErrNotFound
		}
		return fmt.Errorf("%w: %s", service.ErrNotFound, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if detail == "" {
			return service.ErrRejected
		}
		return fmt.Errorf("%w: %s", service.ErrRejected, detail)
	}
	if detail == "" {
		return fmt.Errorf("server returned HTTP %d", code)
	}
	return fmt.Errorf("server returned HTTP %d: %s", code, detail)
}

// detailFromBody extracts the "detail" field of an error body.
// Validation errors carry a list of {loc, msg}; their messages are joined.
func detailFromBody(body string) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(body)
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(env.Detail)
}

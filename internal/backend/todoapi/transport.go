package todoapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id for correlating server logs.
const RequestIDHeader = "X-Request-ID"

// transport stamps a request id on every request and logs the outcome.
type transport struct {
	base http.RoundTripper
	log  *slog.Logger
}

func newTransport(base http.RoundTripper, log *slog.Logger) *transport {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &transport{base: base, log: log}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Debug("request failed",
			"id", id, "method", req.Method, "path", req.URL.Path, "err", err)
		return nil, err
	}
	t.log.Debug("request",
		"id", id, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

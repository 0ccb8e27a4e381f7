// Package http exposes the catalog, search and view counting services over
// HTTP and provides a client for them.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prepcat"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	prepcat.ECONFLICT: http.StatusConflict,
	prepcat.EINVALID:  http.StatusBadRequest,
	prepcat.ENOTFOUND: http.StatusNotFound,
	prepcat.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// FromErrorStatusCode returns the application error code for an HTTP status code.
func FromErrorStatusCode(status int) string {
	for k, v := range codes {
		if v == status {
			return k
		}
	}
	return prepcat.EINTERNAL
}

// ErrorResponse is the body written for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ViewsResponse is the body of the view counting endpoints.
type ViewsResponse struct {
	Views int `json:"views"`
}

// writeError writes err as a JSON error response. Internal errors are logged
// and their details hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code, message := prepcat.ErrorCode(err), prepcat.ErrorMessage(err)
	if code == prepcat.EINTERNAL {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, ErrorStatusCode(code), &ErrorResponse{Error: message})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCacheableJSON writes v with an ETag derived from the encoded body.
// A request whose If-None-Match carries the same tag gets 304 and no body.
func writeCacheableJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	tag := ETag(body)

	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// ETag returns a strong entity tag for body.
func ETag(body []byte) string {
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", xxhash.Sum64(body)))
}

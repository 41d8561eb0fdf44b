package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/futureed/archive/internal/catalog"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, errorBody{Error: message, Code: code})
}

// statusFor maps a failure kind onto an HTTP status.
func statusFor(kind catalog.Kind) int {
	switch kind {
	case catalog.KindInvalidInput:
		return http.StatusBadRequest
	case catalog.KindNotFound:
		return http.StatusNotFound
	case catalog.KindUnauthorized:
		return http.StatusUnauthorized
	case catalog.KindForbidden:
		return http.StatusForbidden
	case catalog.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error. Internal failures are logged and
// their detail is withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *catalog.Error
	if !errors.As(err, &ce) {
		ce = &catalog.Error{Kind: catalog.KindInternal, Code: catalog.CodeInternal, Message: "internal error", Err: err}
	}

	status := statusFor(ce.Kind)
	if status == http.StatusInternalServerError {
		slog.Error(ce.Message, "error", ce.Err, "method", r.Method, "path", r.URL.Path, "request_id", requestID(r))
		jsonError(w, status, catalog.CodeInternal, "internal error")
		return
	}
	jsonError(w, status, ce.Code, ce.Message)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

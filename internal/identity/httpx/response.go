package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/pkg/slogx"
)

// MaxBodyBytes caps a JSON request body.
const MaxBodyBytes = 1 << 20

// ErrorBody is the envelope of every failed request. WriteError adds any
// AppError details as extra top-level fields.
type ErrorBody struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Type    string               `json:"type,omitempty"`
	Errors  []apperror.Violation `json:"errors,omitempty"`

	// TwoFactorRequired tells a client to retry sign-in with a code.
	TwoFactorRequired bool `json:"twoFactorRequired,omitempty"`
}

// WriteJSON writes v with the given status. Responses are never cached;
// most of them carry tokens or account data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteSuccess writes {"success": true, "message": ..., <fields>}.
func WriteSuccess(w http.ResponseWriter, code int, message string, fields map[string]any) {
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	WriteJSON(w, code, body)
}

// WriteError classifies err and writes the error envelope. 5xx errors are
// logged with their internal cause; the client only sees the safe message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)

	if appErr.Code >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			"status", appErr.Code, "type", appErr.Type, "error", err)
	}

	body := map[string]any{
		"success": false,
		"message": appErr.Message,
		"type":    appErr.Type,
	}
	if len(appErr.Violations) > 0 {
		body["errors"] = appErr.Violations
	}
	for k, v := range appErr.Details {
		body[k] = v
	}
	WriteJSON(w, appErr.Code, body)
}

var errBadBody = apperror.NewValidation("Request body must be valid JSON")

// DecodeJSON reads a JSON body into dst. An empty body leaves dst as is.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}

// Package httputil holds the small amount of JSON plumbing shared by HTTP
// handlers: decode-and-validate on the way in, error rendering on the way out.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	derrors "safeplate/pkg/domain-errors"
)

// Validatable is implemented by request types that parse and validate
// themselves after JSON decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a domain error as JSON. Internal errors omit the
// description so server details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	var de *derrors.Error
	if !errors.As(err, &de) {
		de = derrors.New(derrors.CodeInternal, err.Error())
	}

	body := map[string]string{"error": string(de.Code)}
	if de.Code.Public() && de.Description != "" {
		body["error_description"] = de.Description
	}
	WriteJSON(w, de.Code.HTTPStatus(), body)
}

// DecodeAndPrepare decodes the request body into T and runs its validation.
// On failure it writes the error response and returns ok=false; handlers
// should simply return.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed", "request_id", requestID, "error", err)
		}
		WriteError(w, derrors.New(derrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

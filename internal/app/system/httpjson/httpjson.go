// Package httpjson provides the JSON request/response conventions shared
// by every feature handler: body decoding with a size cap, success
// responses, and taxonomy-mapped error responses.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/reelhub/reelhub/internal/domain/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies. Movie snapshots with full plots
// fit comfortably; anything larger is abuse.
const maxBodyBytes = 1 << 20

// Decode reads the request body into v. Unknown fields are rejected so
// client typos surface as 400s instead of silently dropped data.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", apperr.ErrValidation, err)
	}
	return nil
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
}

// Error maps err onto the HTTP status implied by the apperr taxonomy and
// writes a JSON error body. Unclassified errors become opaque 500s; the
// underlying cause goes to the log, never to the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrNotAuthorized):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrAlreadyMember):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrRemote):
		status, msg = http.StatusBadGateway, err.Error()
	default:
		log.Error("unhandled error", zap.Error(err))
	}

	Respond(w, status, errorBody{Error: msg})
}

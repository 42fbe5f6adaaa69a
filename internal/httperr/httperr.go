// Package httperr maps library errors onto HTTP responses.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jacentio/shelf/dispatch"
	"github.com/jacentio/shelf/library"
	"github.com/jacentio/shelf/store"
)

const internalMessage = "Internal server error"

// Response is the JSON body of a failed request.
type Response struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, library.ErrValidation), errors.Is(err, store.ErrNoFieldsToUpdate),
		errors.Is(err, store.ErrReservedField), errors.Is(err, store.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, library.ErrConflict):
		return http.StatusConflict
	default:
		// ArgumentError and UnrecognizedOperationError land here as well.
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to the caller. Errors outside the
// library taxonomy are not exposed.
func Message(err error) string {
	if known(err) {
		return err.Error()
	}
	return internalMessage
}

// Body encodes the error response for err.
func Body(err error, requestID string) []byte {
	b, _ := json.Marshal(Response{Error: Message(err), RequestID: requestID})
	return b
}

// Write sends the error response for err.
func Write(w http.ResponseWriter, err error, requestID string) int {
	status := Status(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(Body(err, requestID))
	return status
}

func known(err error) bool {
	for _, target := range []error{
		library.ErrValidation,
		library.ErrArgument,
		store.ErrNotFound,
		store.ErrNoFieldsToUpdate,
		store.ErrReservedField,
		store.ErrInvalidToken,
		dispatch.ErrUnrecognizedOperation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

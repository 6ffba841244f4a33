package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "recurring-orders/pkg/errors"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// RespondJSON sends data as the JSON response body
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ParseJSONBody decodes a JSON request body with a size limit. Any decoding
// failure is a validation error, since the client sent it.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("request body is required")
		case errors.Is(err, io.ErrUnexpectedEOF):
			return pkgerrors.NewValidationError("request body is not valid JSON (unexpected end of input)")
		case errors.As(err, &syntaxErr):
			return pkgerrors.NewValidationErrorf("request body is not valid JSON (at offset %d)", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return pkgerrors.NewValidationErrorf("%s must be a %s", typeErr.Field, typeErr.Type)
		case errors.As(err, &maxErr):
			return pkgerrors.NewValidationErrorf("request body must not exceed %d bytes", maxErr.Limit)
		default:
			return pkgerrors.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
		}
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return pkgerrors.NewValidationError("request body must contain a single JSON object")
	}

	return nil
}

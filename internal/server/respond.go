package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/masonry/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeErr maps a coded error to its status and message.
func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

// decode reads a JSON body of at most limit bytes into v.
func decode(r *http.Request, w http.ResponseWriter, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

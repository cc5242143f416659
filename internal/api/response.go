package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"bombardier/internal/analysis"
	"bombardier/internal/logging"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// writeServiceError maps validation failures to 400 and hides everything
// else behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, analysis.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logging.Error("api_error", logging.Fields{
		"path":       r.URL.Path,
		"request_id": middleware.GetReqID(r.Context()),
		"error":      err.Error(),
	})
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decode reads one JSON body into v, writing the error response itself.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

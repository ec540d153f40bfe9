package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"modhost/versions"
)

// response is the uniform JSON body shape of the API.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: message, Data: data})
}

// writeError maps the service error taxonomy to HTTP. Authorization
// failures answer like a missing resource so the API never confirms
// the existence of projects the caller cannot see. Anything unmapped
// becomes a generic internal error with the cause logged, not leaked.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, versions.ErrUnauthorized), errors.Is(err, versions.ErrNotFound):
		writeJSON(w, http.StatusNotFound, response{Success: false, Message: "not found"})
	case errors.Is(err, versions.ErrInvalidInput), errors.Is(err, versions.ErrConflict):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
	default:
		log.Errorw("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "internal error"})
	}
}

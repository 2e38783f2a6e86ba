package routes

import (
	"encoding/json"
	"errors"
	"iruka/iruka/controllers"
	"iruka/iruka/utils/logging"
	"net/http"

	"go.uber.org/zap"
)

var (
	errBadRequest   = errors.New("invalid request body")
	errUnknownFrame = errors.New("unknown frame type")
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, controllers.ErrEmptyMessage), errors.Is(err, errBadRequest), errors.Is(err, errUnknownFrame):
		return http.StatusBadRequest
	case errors.Is(err, controllers.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, controllers.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleJSON adapts a handler returning (body, error) to http.HandlerFunc.
func handleJSON(fn func(w http.ResponseWriter, r *http.Request) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

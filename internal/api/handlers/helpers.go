package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"ride-sim-service/internal/platform/obs"

	"go.uber.org/zap"
)

// logger returns the global logger tagged with the request id.
func logger(r *http.Request) *zap.Logger {
	return zap.L().With(zap.String("req_id", obs.RequestID(r.Context())))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger(r).Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

var errEmptyBody = errors.New("empty body")

// decodeJSON reads exactly one JSON object with no unknown fields.
// errEmptyBody is returned when the body is empty.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

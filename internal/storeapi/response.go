package storeapi

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

var (
	errBadRequest   = errors.New("bad request")
	errUnauthorized = errors.New("wrong password")
)

// statusFromError maps store errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithResult(w http.ResponseWriter, code int, message string) {
	status := domain.StatusSuccess
	if code >= 400 {
		status = domain.StatusError
	}
	respondWithJSON(w, code, domain.ActionResult{Status: status, Message: message})
}

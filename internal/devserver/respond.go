package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/five82/snooze/internal/storyapi"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, storyapi.ErrorResponse{Error: storyapi.ErrorBody{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	}})
}

// writeStoreError maps store and token errors onto the service's status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUserExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, errBadCredentials), errors.Is(err, errInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errNoUser), errors.Is(err, errNoStory):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

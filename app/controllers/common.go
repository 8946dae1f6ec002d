package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"community/app/identity"
	"community/app/models"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto stable HTTP codes.
// Identity outage is the one retryable failure and is kept distinct from
// permanent rejections.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *models.ValidationError
		conflictErr   *models.ConflictError
		authErr       *models.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_error", Message: validationErr.Reason})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict", Message: conflictErr.Reason})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Message: authErr.Reason})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, identity.ErrIdentityUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "identity_unavailable", Message: "identity service unreachable, retry later"})
	default:
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

// actorID extracts the acting user from the X-User-Id header. Who the user
// actually is belongs to the identity service; this boundary only needs the
// opaque id.
func actorID(r *http.Request) (string, error) {
	id := r.Header.Get("X-User-Id")
	if id == "" {
		return "", &models.ValidationError{Reason: "missing X-User-Id header"}
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &models.ValidationError{Reason: "malformed request body"}
	}
	return nil
}

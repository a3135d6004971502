package httptransport

import (
	"errors"
	"net/http"

	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
	"citizenportal/internal/service"
	"citizenportal/internal/storage"
)

// responder maps service and storage errors onto the response envelope.
type responder struct {
	prod bool
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domains.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		httpx.Invalid(w, verrs)
	case errors.Is(err, storage.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrAdminExists):
		httpx.Error(w, http.StatusConflict, "admin already exists")
	case errors.Is(err, storage.ErrConflict):
		httpx.Error(w, http.StatusConflict, "conflict")
	case errors.Is(err, service.ErrPasswordIncorrect):
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrTokenIncorrect),
		errors.Is(err, service.ErrAdminDisabled),
		errors.Is(err, storage.ErrAdminNotFound):
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
	default:
		httpx.Internal(w, r, err, rs.prod)
	}
}

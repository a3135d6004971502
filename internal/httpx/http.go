package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"citizenportal/internal/domains"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ValidationResponse struct {
	Success bool                     `json:"success"`
	Errors  domains.ValidationErrors `json:"errors"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response failed", "err", err)
	}
}

// Success writes {"success": true, key: value}. key is the singular or
// plural envelope name of the resource.
func Success(w http.ResponseWriter, code int, key string, value any) {
	JSON(w, code, map[string]any{"success": true, key: value})
}

func Message(w http.ResponseWriter, code int, message string) {
	JSON(w, code, MessageResponse{Success: true, Message: message})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

func Invalid(w http.ResponseWriter, errs domains.ValidationErrors) {
	JSON(w, http.StatusBadRequest, ValidationResponse{Errors: errs})
}

// Internal reports a 500. The underlying message is only exposed outside
// prod.
func Internal(w http.ResponseWriter, r *http.Request, err error, prod bool) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "err", err)
	msg := "internal server error"
	if !prod {
		msg = err.Error()
	}
	Error(w, http.StatusInternalServerError, msg)
}

// GetId parses the {id} path variable. On failure it has already written a
// 400 and returns false.
func GetId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		Invalid(w, domains.Invalid("id", "id must be a positive integer", idStr))
		return 0, false
	}
	return id, true
}

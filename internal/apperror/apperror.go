// Package apperror maps domain and auth errors to HTTP responses so every
// layer reports failures with the same status codes and body shape.
package apperror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// ErrRateLimited is returned when a client exceeded its request budget.
var ErrRateLimited = errors.New("rate limited")

// Error codes sent in the response body.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeInvalidCredential = "invalid_credential"
	CodePrincipalNotFound = "principal_not_found"
	CodeInvalidLogin      = "invalid_login"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeValidation        = "validation_failed"
	CodeConflict          = "conflict"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// Body is the JSON error response.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type kind struct {
	target  error
	status  int
	code    string
	message string
}

// kinds is checked in order. An empty message means the error text is safe to show.
var kinds = []kind{
	{auth.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated, "authentication required"},
	{auth.ErrInvalidCredential, http.StatusUnauthorized, CodeInvalidCredential, "invalid or expired credential"},
	{auth.ErrPrincipalNotFound, http.StatusUnauthorized, CodePrincipalNotFound, "account no longer exists"},
	{models.ErrInvalidLogin, http.StatusUnauthorized, CodeInvalidLogin, "invalid email or password"},
	{auth.ErrForbidden, http.StatusForbidden, CodeForbidden, "access denied"},
	{models.ErrNotFound, http.StatusNotFound, CodeNotFound, "not found"},
	{models.ErrValidation, http.StatusBadRequest, CodeValidation, ""},
	{models.ErrConflict, http.StatusConflict, CodeConflict, "resource already exists"},
	{ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited, "too many requests, retry later"},
}

// Classify returns the status code and body for err. Unknown errors
// become a 500 whose body reveals nothing about the cause.
func Classify(err error) (int, Body) {
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			msg := k.message
			if msg == "" {
				msg = err.Error()
			}
			return k.status, Body{Code: k.code, Message: msg}
		}
	}
	return http.StatusInternalServerError, Body{Code: CodeInternal, Message: "internal server error"}
}

// IsAuthRejection reports whether code comes from the auth, role or ownership gates.
func IsAuthRejection(code string) bool {
	switch code {
	case CodeUnauthenticated, CodeInvalidCredential, CodePrincipalNotFound, CodeForbidden:
		return true
	}
	return false
}

// Write sends the response for err and returns the status code used.
func Write(w http.ResponseWriter, err error) int {
	status, body := Classify(err)
	WriteJSON(w, status, body)
	return status
}

// WriteJSON encodes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

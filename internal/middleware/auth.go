// Package middleware provides HTTP middlewares for authentication, role
// checks, rate limiting, panic recovery and request logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/zenly/internal/apperror"
	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

type ctxKey string

const (
	principalKey ctxKey = "principal"
	holderKey    ctxKey = "principal-holder"
)

// principalHolder lets outer middleware see the principal resolved further in.
type principalHolder struct {
	id string
}

func withHolder(ctx context.Context, h *principalHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// Authenticator resolves an Authorization header to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (auth.Principal, error)
}

// RejectionRecorder counts requests turned away by a gate.
type RejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	if h, ok := ctx.Value(holderKey).(*principalHolder); ok {
		h.id = p.ID
	}
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by Authenticate.
// The boolean is false when the request was never authenticated.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok && p.ID != ""
}

// Authenticate runs the auth gate on every request. On success the
// principal is stored in the request context; otherwise the request is
// rejected with 401 and never reaches next. rec may be nil.
func Authenticate(gate Authenticator, rec RejectionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				reject(w, err, rec)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole admits only principals holding role. It must be mounted
// after Authenticate; a request without a principal is unauthenticated.
func RequireRole(role models.Role, rec RejectionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				reject(w, auth.ErrUnauthenticated, rec)
				return
			}
			if err := auth.RequireRole(p, role); err != nil {
				reject(w, err, rec)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, err error, rec RejectionRecorder) {
	status, body := apperror.Classify(err)
	if rec != nil && apperror.IsAuthRejection(body.Code) {
		rec.RecordAuthRejection(body.Code)
	}
	apperror.WriteJSON(w, status, body)
}

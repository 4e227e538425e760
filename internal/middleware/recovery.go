package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/atinyakov/zenly/internal/apperror"
	"go.uber.org/zap"
)

// Recoverer turns a panic in a handler into a logged 500 response.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				apperror.WriteJSON(w, http.StatusInternalServerError, apperror.Body{
					Code:    apperror.CodeInternal,
					Message: "internal server error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithRequestLogging logs one line per request with its method, path,
// status, duration, request id and, when authenticated, the principal id.
// 4xx responses log at warn and 5xx at error.
func WithRequestLogging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Inner middleware attaches the principal to a derived request,
			// so it is captured through this holder.
			holder := &principalHolder{}
			r = r.WithContext(withHolder(r.Context(), holder))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.Int("bytes", ww.BytesWritten()),
			}
			if id := chiMiddleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if holder.id != "" {
				fields = append(fields, zap.String("principal_id", holder.id))
			}

			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := log.Check(level, "http request"); ce != nil {
				ce.Write(fields...)
			}
		})
	}
}

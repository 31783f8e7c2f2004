package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"quickai/internal/domain"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// userSlot lets Authenticate, which runs deeper in the chain, report the
// caller back to the access log.
type userSlot struct {
	id domain.Identity
}

type userSlotKey struct{}

func markUser(ctx context.Context, id domain.Identity) {
	if slot, ok := ctx.Value(userSlotKey{}).(*userSlot); ok {
		slot.id = id
	}
}

// Logger writes one structured access log line per request.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			slot := &userSlot{}
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), userSlotKey{}, slot)))

			event := l.Info()
			if rw.status >= http.StatusInternalServerError {
				event = l.Error()
			}
			event.
				Str("request_id", RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Int("bytes", rw.bytes).
				Dur("took", time.Since(start))
			if country := CountryFromContext(r.Context()); country != "" {
				event.Str("country", country)
			}
			if slot.id != "" {
				event.Str("user_id", string(slot.id))
			}
			event.Msg("http request")
		})
	}
}

package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: request ID, method, path, status, and
// duration. The request ID comes from chi's RequestID middleware, which
// must run earlier in the chain.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Strip CR/LF from user-supplied values to prevent log injection.
		sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
		log.Printf(
			"[%s] %s %s %d %s",
			chimiddleware.GetReqID(r.Context()),
			sanitize(r.Method),
			sanitize(r.URL.Path),
			wrapped.status,
			time.Since(start),
		)
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

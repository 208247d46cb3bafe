package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// responseWrapper "wraps" the standard ResponseWriter so we can see the
// status code a handler wrote after the fact.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogger is the outer-most middleware: one line per request with a
// request ID so log lines from the handlers can be correlated.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		w.Header().Set("X-Request-ID", reqID)
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		log.Printf("[%s] %s %s %s -> %d (%v)",
			reqID[:8],
			r.Method,
			r.URL.Path,
			r.RemoteAddr,
			wrapper.statusCode,
			time.Since(start),
		)
	})
}

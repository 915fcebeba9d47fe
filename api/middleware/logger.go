// Package middleware holds HTTP middleware shared by the API server.
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: request id, method, path, status,
// response size and duration.
func Logger(next http.Handler) http.Handler {
	return LoggerTo(log.Default())(next)
}

// LoggerTo returns request logging middleware writing to l.
func LoggerTo(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				l.Printf("[%s] %s %s %d %s in %s",
					chimiddleware.GetReqID(r.Context()),
					r.Method,
					r.URL.Path,
					status,
					humanize.Bytes(uint64(ww.BytesWritten())),
					time.Since(start).Round(time.Microsecond),
				)
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Package middleware provides HTTP middleware for the protalign API.
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request: request ID, method, path, status,
// response size and duration.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Printf("[%s] %s %s %d %s %s",
				chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path,
				status, humanize.Bytes(uint64(ww.BytesWritten())), time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

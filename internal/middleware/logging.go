package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			resp := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(resp, r)
			log.Tracef(" ====> request [%s] path: [%s] -> %d in %s [UA: %s]",
				r.Method, r.URL.Path, resp.statusCode, time.Since(start), r.Header.Get("User-Agent"))
		})
	}
}

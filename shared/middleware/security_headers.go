package middleware

import (
	"net/http"
)

// apiCSP is the policy for a JSON-only API: nothing may be loaded or framed.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders adds the response headers of a JSON API.
// isHTTPS: if true, adds Strict-Transport-Security header
func SecurityHeaders(isHTTPS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "no-referrer")
			headers.Set("Content-Security-Policy", apiCSP)
			// envelopes carry session state
			headers.Set("Cache-Control", "no-store")

			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

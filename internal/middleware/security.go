// internal/middleware/security.go
//
// Security-header middleware for a JSON API.
//
// Injects on every response:
//
//   • Strict-Transport-Security  -  forces HTTPS (2 years)
//   • Content-Security-Policy    -  nothing may load; responses are data
//   • X-Frame-Options            -  click-jacking defence
//   • X-Content-Type-Options     -  MIME-sniffing defence
//   • Referrer-Policy            -  no Referer at all
//   • Cache-Control              -  catalog responses are never stored
//
// Notes
// -----
// • Headers are set before next.ServeHTTP, since a handler that has already
//   written its status cannot gain headers afterwards.  A handler may still
//   override any of them.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		csp   = "default-src 'none'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "no-referrer"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)

		next.ServeHTTP(w, r)
	})
}

// internal/requestinfo/middleware.go
//
// HTTP middleware that attaches *Info to each request.
//
/*
Context
--------
Sits first in the chain so the access log can report who called.  For every
request it:

  1. Parses the User-Agent header.
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Looks up the country when a GeoLite2 database is configured.
  4. Stores `*Info` in the request context under an unexported key.

Notes
-----
  - Without a GeoIP path the middleware still runs; CountryISO stays empty.
  - All look-ups are read-only, so the middleware is safe under concurrency.
*/
package requestinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Enricher owns the optional GeoIP reader.
type Enricher struct {
	geo    geoLookup
	closer func() error
}

// New opens the GeoLite2 database at geoPath.  An empty path disables the
// country lookup.
func New(geoPath string) (*Enricher, error) {
	if geoPath == "" {
		return &Enricher{closer: func() error { return nil }}, nil
	}
	r, err := geoip2.Open(geoPath)
	if err != nil {
		return nil, err
	}
	return &Enricher{geo: r, closer: r.Close}, nil
}

// Close releases the GeoIP reader.
func (e *Enricher) Close() error { return e.closer() }

// Middleware wraps next and attaches *Info to the request context.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		info := &Info{
			UA:         parseUA(r.UserAgent()),
			IP:         ip,
			CountryISO: countryOf(e.geo, ip),
		}
		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

// clientIP extracts the left-most parseable address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

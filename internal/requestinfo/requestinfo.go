//
//  internal/requestinfo/requestinfo.go
//
//  Per-request client metadata (user-agent fingerprint, client IP, and
//  country) consumed by the access log.  The structs are inert, so they are
//  safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"net"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties.
type UA struct {
	Browser string // "Chrome", "Firefox", "Safari", ...
	OS      string // "macOS", "Windows", "Android", ...
	Device  string // "Computer", "Phone", "Tablet", ...
	IsBot   bool
}

// Info is stored in the request context by Enricher.Middleware.
type Info struct {
	UA         UA
	IP         net.IP
	CountryISO string // empty when no GeoIP database is configured
}

type ctxKey struct{}

// FromContext returns the Info stored by the middleware, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// WithInfo returns a copy of ctx carrying info.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// parseUA converts a raw header into UA using uasurfer.
func parseUA(header string) UA {
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}
	return UA{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      osName,
		Device:  strings.TrimPrefix(u.DeviceType.String(), "Device"),
		IsBot:   u.IsBot(),
	}
}

// geoLookup is the slice of *geoip2.Reader we use.
type geoLookup interface {
	Country(ip net.IP) (*geoip2.Country, error)
}

func countryOf(db geoLookup, ip net.IP) string {
	if db == nil || ip == nil {
		return ""
	}
	rec, err := db.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

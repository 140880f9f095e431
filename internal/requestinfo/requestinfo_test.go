package requestinfo

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oschwald/geoip2-golang"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"xff first valid", map[string]string{"X-Forwarded-For": "junk, 203.0.113.7, 10.0.0.1"}, "10.0.0.9:1", "203.0.113.7"},
		{"x-real-ip", map[string]string{"X-Real-Ip": "198.51.100.2"}, "10.0.0.9:1", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.4:5555", "192.0.2.4"},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remote
		for k, v := range tc.header {
			r.Header.Set(k, v)
		}
		if got := clientIP(r); got.String() != tc.want {
			t.Errorf("%s: clientIP = %v, want %s", tc.name, got, tc.want)
		}
	}
}

func TestParseUA(t *testing.T) {
	ua := parseUA(chromeMac)
	if ua.Browser != "Chrome" || ua.OS != "macOS" || ua.IsBot {
		t.Fatalf("parseUA = %+v", ua)
	}
}

type fakeGeo struct{ iso string }

func (f fakeGeo) Country(net.IP) (*geoip2.Country, error) {
	if f.iso == "" {
		return nil, errors.New("not found")
	}
	c := &geoip2.Country{}
	c.Country.IsoCode = f.iso
	return c, nil
}

func TestMiddleware_AttachesInfo(t *testing.T) {
	e := &Enricher{geo: fakeGeo{iso: "NL"}, closer: func() error { return nil }}

	var got *Info
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})
	r := httptest.NewRequest(http.MethodGet, "/api/tutorials", nil)
	r.RemoteAddr = "192.0.2.4:5555"
	r.Header.Set("User-Agent", chromeMac)

	e.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if got == nil {
		t.Fatalf("Info not attached")
	}
	if got.CountryISO != "NL" || got.IP.String() != "192.0.2.4" || got.UA.Browser != "Chrome" {
		t.Fatalf("Info = %+v", got)
	}
}

func TestNew_EmptyPathDisablesGeo(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	if countryOf(e.geo, net.ParseIP("192.0.2.4")) != "" {
		t.Fatalf("country reported without a database")
	}
	if FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()) != nil {
		t.Fatalf("FromContext on bare request should be nil")
	}
}

package geoip

import (
	"errors"
	"net"
	"testing"
)

func TestOpenEmptyPath(t *testing.T) {
	r, err := Open("  ")
	if err != nil || r != nil {
		t.Fatalf("Open(\"\") = %v, %v; want nil, nil", r, err)
	}
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("nil resolver error = %v", err)
	}
	if r.Lookup() != nil {
		t.Fatalf("nil resolver should expose no lookup")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close on nil resolver: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("expected error for missing database")
	}
}

func TestRoutable(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", true},
		{"2001:4860:4860::8888", true},
		{"127.0.0.1", false},
		{"10.1.2.3", false},
		{"192.168.0.10", false},
		{"fe80::1", false},
		{"::", false},
	}
	for _, tc := range tests {
		if got := routable(net.ParseIP(tc.ip)); got != tc.want {
			t.Fatalf("routable(%s) = %v, want %v", tc.ip, got, tc.want)
		}
	}
}

package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "first forwarded hop", forwarded: " 203.0.113.9 , 10.0.0.1", remoteAddr: "10.0.0.2:5000", want: "203.0.113.9"},
		{name: "garbage forwarded falls back", forwarded: "unknown", realIP: "198.51.100.4", want: "198.51.100.4"},
		{name: "remote addr with port", remoteAddr: "192.0.2.10:43122", want: "192.0.2.10"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{name: "mapped ipv4", realIP: "::ffff:192.0.2.7", want: "192.0.2.7"},
		{name: "nothing usable", remoteAddr: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/matches", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}

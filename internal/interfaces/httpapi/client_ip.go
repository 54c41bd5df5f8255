package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// resolveClientIP prefers the first hop of X-Forwarded-For, then X-Real-IP,
// then the socket peer. It returns "" when none parses as an address.
func resolveClientIP(r *http.Request) string {
	if forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); forwarded != "" {
		if addr, ok := parseAddr(forwarded); ok {
			return addr.String()
		}
	}
	for _, candidate := range []string{r.Header.Get("X-Real-IP"), r.RemoteAddr} {
		if addr, ok := parseAddr(candidate); ok {
			return addr.String()
		}
	}
	return ""
}

func parseAddr(raw string) (netip.Addr, bool) {
	value := strings.TrimSpace(raw)
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

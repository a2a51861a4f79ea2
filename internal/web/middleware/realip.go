package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For, but
// only when the connection comes from a trusted proxy. Entries may be CIDRs
// or single addresses; invalid entries are logged and skipped.
//
// Untrusted clients can therefore not spoof their address to dodge the rate
// limiter or the run history.
func TrustedRealIP(trusted []string) func(http.Handler) http.Handler {
	prefixes := parseTrusted(trusted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if remote, ok := parseAddr(r.RemoteAddr); ok && contains(prefixes, remote) {
				if ip, ok := forwardedIP(r.Header); ok {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseTrusted(entries []string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if p, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "entry", entry, "error", err)
			continue
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}

// forwardedIP prefers X-Real-IP, then the first hop of X-Forwarded-For.
func forwardedIP(h http.Header) (netip.Addr, bool) {
	if rip := strings.TrimSpace(h.Get("X-Real-IP")); rip != "" {
		return parseAddr(rip)
	}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return parseAddr(strings.TrimSpace(first))
	}
	return netip.Addr{}, false
}

// parseAddr accepts "host:port" or a bare address.
func parseAddr(s string) (netip.Addr, bool) {
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func contains(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Package netutil extracts the request metadata stored on audit calls.
package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

// MaxUserAgentLength bounds audit_calls.user_agent, in runes.
const MaxUserAgentLength = 512

// NormalizeIP returns the zone-free IP of raw, which may carry a port
// ("192.0.2.4:1234", "[2001:db8::1]:443") or be a bare address. ok is false
// when no IP can be found; raw is then returned trimmed.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, host := range hostCandidates(raw) {
		if addr, err := netip.ParseAddr(host); err == nil {
			return addr.WithZone("").String(), true
		}
	}
	return raw, false
}

// hostCandidates lists the substrings of raw that may hold the address, most
// specific first.
func hostCandidates(raw string) []string {
	out := []string{raw}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return []string{ap.Addr().String()}
	}
	if strings.HasPrefix(raw, "[") {
		if end := strings.LastIndex(raw, "]"); end > 0 {
			out = append(out, raw[1:end])
		}
	}
	if i := strings.LastIndex(raw, ":"); i > 0 {
		out = append(out, raw[:i])
	}
	return out
}

// TruncateUserAgent cuts ua to MaxUserAgentLength runes without splitting a
// multi-byte character.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}

// ClientIP returns the caller address recorded on audit calls. The first
// X-Forwarded-For hop wins, then X-Real-IP, then the socket address.
func ClientIP(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	for _, candidate := range []string{first, r.Header.Get("X-Real-IP"), r.RemoteAddr} {
		if ip, ok := NormalizeIP(candidate); ok {
			return ip
		}
	}
	return r.RemoteAddr
}

package api

import (
	"net"
	"net/http"
	"strings"
)

// clientIdentity derives the rate-limit key for a request. When proxy
// headers are trusted, the first X-Forwarded-For hop (the original client as
// reported by the edge) is used; otherwise the socket address. The identity
// is never persisted beyond the limiter's counter state.
func clientIdentity(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return "unknown"
}

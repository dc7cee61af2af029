package hardening

import (
	"net/http"
	"strings"
)

// Middleware applies the policy headers to every response. It must be the
// last header-writing step before handlers run so nothing downstream
// removes the injected headers by accident.
func Middleware(policy *Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy.Apply(w.Header(), IsSecureTransport(r))
			next.ServeHTTP(w, r)
		})
	}
}

// IsSecureTransport reports whether the request arrived over TLS, either
// directly or via a terminating proxy.
func IsSecureTransport(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

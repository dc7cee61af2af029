// Package hardening builds the defensive response headers attached to every
// outgoing response, independent of business logic.
package hardening

import (
	"fmt"
	"net/http"
	"strings"
)

// CSPConfig holds the recognized Content-Security-Policy directives. An
// empty directive is omitted from the header.
type CSPConfig struct {
	DefaultSrc     string
	ScriptSrc      string
	StyleSrc       string
	ImgSrc         string
	FontSrc        string
	ConnectSrc     string
	FrameAncestors string
}

// HSTSConfig controls the Strict-Transport-Security header emitted on
// secured transports.
type HSTSConfig struct {
	MaxAgeSeconds     int
	IncludeSubdomains bool
	Preload           bool
}

// DefaultHSTS matches the conventional one-year policy.
var DefaultHSTS = HSTSConfig{MaxAgeSeconds: 31536000, IncludeSubdomains: true, Preload: true}

// DefaultReferrerPolicy is used when no referrer policy is configured.
const DefaultReferrerPolicy = "strict-origin-when-cross-origin"

// Config is the immutable snapshot a Policy is built from. It is assembled
// once at process start and never mutated field by field afterwards.
type Config struct {
	CSP            CSPConfig
	ReferrerPolicy string
	HSTS           HSTSConfig
}

// Header is one name/value pair in the ordered header set.
type Header struct {
	Name  string
	Value string
}

// Policy produces the deterministic header set for a configuration
// snapshot. Construction precomputes everything; Headers and Apply are
// pure reads and safe for concurrent use.
type Policy struct {
	static []Header
	hsts   string
}

// NewPolicy builds a Policy from the given snapshot, applying defaults for
// unset referrer policy and HSTS parameters.
func NewPolicy(cfg Config) *Policy {
	referrer := cfg.ReferrerPolicy
	if referrer == "" {
		referrer = DefaultReferrerPolicy
	}
	hsts := cfg.HSTS
	if hsts == (HSTSConfig{}) {
		hsts = DefaultHSTS
	}

	var static []Header
	if csp := buildCSP(cfg.CSP); csp != "" {
		static = append(static, Header{"Content-Security-Policy", csp})
	}
	static = append(static,
		Header{"X-Content-Type-Options", "nosniff"},
		Header{"X-Frame-Options", "DENY"},
		Header{"X-XSS-Protection", "1; mode=block"},
		Header{"Referrer-Policy", referrer},
		Header{"X-Permitted-Cross-Domain-Policies", "none"},
		Header{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	)

	return &Policy{static: static, hsts: buildHSTS(hsts)}
}

// Headers returns the ordered header set for the given transport state.
// Toggling secureTransport adds or removes exactly the
// Strict-Transport-Security header.
func (p *Policy) Headers(secureTransport bool) []Header {
	headers := make([]Header, 0, len(p.static)+1)
	headers = append(headers, p.static...)
	if secureTransport {
		headers = append(headers, Header{"Strict-Transport-Security", p.hsts})
	}
	return headers
}

// Apply writes the header set onto an http.Header. Existing values under
// the same names are replaced, so the policy wins over anything a handler
// set earlier.
func (p *Policy) Apply(h http.Header, secureTransport bool) {
	for _, hdr := range p.Headers(secureTransport) {
		h.Set(hdr.Name, hdr.Value)
	}
}

// buildCSP joins the configured directives in canonical order. The order is
// fixed so repeated builds are byte-identical.
func buildCSP(cfg CSPConfig) string {
	directives := []struct {
		name  string
		value string
	}{
		{"default-src", cfg.DefaultSrc},
		{"script-src", cfg.ScriptSrc},
		{"style-src", cfg.StyleSrc},
		{"img-src", cfg.ImgSrc},
		{"font-src", cfg.FontSrc},
		{"connect-src", cfg.ConnectSrc},
		{"frame-ancestors", cfg.FrameAncestors},
	}
	var clauses []string
	for _, d := range directives {
		if d.value != "" {
			clauses = append(clauses, d.name+" "+d.value)
		}
	}
	return strings.Join(clauses, "; ")
}

func buildHSTS(cfg HSTSConfig) string {
	value := fmt.Sprintf("max-age=%d", cfg.MaxAgeSeconds)
	if cfg.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	if cfg.Preload {
		value += "; preload"
	}
	return value
}

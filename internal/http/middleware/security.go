// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file sets the response hardening headers. The API only serves JSON,
// so it can send a locked-down Content-Security-Policy; the Swagger UI is the
// one HTML surface and is listed in SecurityOptions.CSPExemptPrefixes.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CachePolicy selects the Cache-Control header sent with every response.
type CachePolicy int

const (
	// CacheUnset leaves Cache-Control to the handlers.
	CacheUnset CachePolicy = iota
	// CacheRevalidate lets the client keep a copy but requires an ETag check
	// before reuse. Shared caches must not store it.
	CacheRevalidate
	// CacheNoStore forbids storing the response anywhere.
	CacheNoStore
)

// apiCSP blocks everything: JSON responses never need to load anything.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests. Only turn
	// it on when traffic is HTTPS all the way to the app.
	EnableHSTS bool
	// HSTSMaxAge defaults to 180 days.
	HSTSMaxAge time.Duration

	Cache CachePolicy

	// EnablePolicy adds Permissions-Policy and X-Permitted-Cross-Domain-Policies.
	EnablePolicy bool

	// CSPExemptPrefixes are URL path prefixes that serve HTML and so do not
	// get the API Content-Security-Policy, e.g. "/swagger/".
	CSPExemptPrefixes []string
}

// SecurityHeaders returns the middleware. It always sets nosniff,
// X-Frame-Options DENY and Referrer-Policy no-referrer; the rest follows opt.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if !hasAnyPrefix(c.Request.URL.Path, opt.CSPExemptPrefixes) {
			h.Set("Content-Security-Policy", apiCSP)
		}

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		switch opt.Cache {
		case CacheNoStore:
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		case CacheRevalidate:
			h.Set("Cache-Control", "private, no-cache")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the request arrived over TLS, directly or through
// a proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

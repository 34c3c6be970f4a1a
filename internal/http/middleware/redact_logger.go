package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// Ordered from most to least specific. The phone pattern is loose enough to
// eat the digit groups of a UUID, so IDs go first.
var piiPatterns = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// Always masked, whatever RedactOptions says.
var sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "Proxy-Authorization"}

// RedactOptions adds to the built-in scrubbing.
type RedactOptions struct {
	// MaskHeaders are extra request headers (case-insensitive) whose values
	// are replaced wholesale.
	MaskHeaders []string
	// MaskQueryParams are query parameters whose values are replaced, such
	// as free-text searches that may describe symptoms.
	MaskQueryParams []string
}

type scrubber struct {
	headers map[string]struct{} // canonical header names
	params  map[string]struct{}
}

func newScrubber(opts RedactOptions) scrubber {
	s := scrubber{
		headers: make(map[string]struct{}, len(sensitiveHeaders)+len(opts.MaskHeaders)),
		params:  make(map[string]struct{}, len(opts.MaskQueryParams)),
	}
	for _, h := range append(sensitiveHeaders, opts.MaskHeaders...) {
		if h = strings.TrimSpace(h); h != "" {
			s.headers[http.CanonicalHeaderKey(h)] = struct{}{}
		}
	}
	for _, p := range opts.MaskQueryParams {
		if p = strings.TrimSpace(p); p != "" {
			s.params[p] = struct{}{}
		}
	}
	return s
}

func (s scrubber) text(v string) string {
	for _, p := range piiPatterns {
		if v == "" {
			break
		}
		v = p.re.ReplaceAllString(v, p.mask)
	}
	return v
}

func (s scrubber) query(raw string) string {
	return truncate(s.text(maskQuery(raw, s.params)), maxQueryLogLength)
}

func (s scrubber) header(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, vals := range h {
		if _, ok := s.headers[http.CanonicalHeaderKey(name)]; ok {
			out[name] = redacted
			continue
		}
		out[name] = s.text(strings.Join(vals, ", "))
	}
	return out
}

// RedactingLogger writes one access-log line per request and attaches a
// request-scoped logger (request_id, method, path) for LoggerFrom. Query
// strings and header values have IDs, emails and phone numbers masked;
// credentials are never logged. Bodies are not logged at all, since they
// carry diary notes.
//
// The line is logged at info, at warn for 4xx, and at error for 5xx or when
// a handler recorded gin errors.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	scrub := newScrubber(opts)

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		rid := RequestIDFrom(c)
		if rid == "" {
			rid = c.Writer.Header().Get(HeaderRequestID)
		}

		lg := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &lg)

		query := scrub.query(c.Request.URL.RawQuery)
		headers := scrub.header(c.Request.Header)

		c.Next()

		ev := accessEvent(&lg, c)
		ev.Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

func accessEvent(lg *zerolog.Logger, c *gin.Context) *zerolog.Event {
	status := c.Writer.Status()
	switch {
	case len(c.Errors) > 0:
		return lg.Error().Str("errors", c.Errors.String())
	case status >= http.StatusInternalServerError:
		return lg.Error()
	case status >= http.StatusBadRequest:
		return lg.Warn()
	default:
		return lg.Info()
	}
}

// maskQuery replaces the values of the named parameters in a raw query,
// leaving order and every other byte as it was.
func maskQuery(raw string, names map[string]struct{}) string {
	if raw == "" || len(names) == 0 {
		return raw
	}
	parts := strings.Split(raw, "&")
	for i, p := range parts {
		k, _, _ := strings.Cut(p, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if _, ok := names[k]; ok {
			parts[i] = url.QueryEscape(k) + "=" + redacted
		}
	}
	return strings.Join(parts, "&")
}

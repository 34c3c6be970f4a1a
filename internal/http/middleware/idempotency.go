// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the Idempotency-Key header. A valid key is stashed for
// handlers (GetIdempotencyKey); on a POST whose key already has a live record
// the request is flagged as a replay (IsReplay), which also exempts it from
// rate limiting. Serving the recorded result is left to the handlers.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header a client repeats when it
// retries the same create.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemMaxLen = 200
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~:-]+$`)

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s, _ := c.Value(ctxKeyIdemKey).(string)
	return s, s != ""
}

// IsReplay reports whether a live record exists for this request's scope and
// key.
func IsReplay(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyIdemReplay).(bool)
	return b
}

// IdempotencyLookup reports whether a live record exists for (scope, key) at
// now. Expiry is the implementation's concern.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (bool, error)

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Default 200.
	MaxLen int
	// Pattern restricts the key's characters. Default ^[A-Za-z0-9._~:-]+$.
	Pattern *regexp.Regexp
	// Lookup, when set, is consulted for POST requests.
	Lookup IdempotencyLookup
	// Now defaults to time.Now.
	Now func() time.Time
}

// IdempotencyScope is the operation a key belongs to: the method plus the
// matched route, e.g. "POST /api/diary". The same key sent to two endpoints
// never collides.
func IdempotencyScope(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// IdempotencyValidator returns the middleware. Requests without the header
// pass through untouched. A malformed key is rejected with 400 and code
// "invalid_idempotency_key". Lookup errors are logged and treated as a miss.
func IdempotencyValidator(opts IdempotencyOptions) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultIdemMaxLen
	}
	if opts.Pattern == nil {
		opts.Pattern = defaultIdemPattern
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(c *gin.Context) {
		raw, present := c.Request.Header[HeaderIdempotencyKey]
		if !present {
			c.Next()
			return
		}
		key := strings.TrimSpace(strings.Join(raw, ","))
		if reason := checkIdempotencyKey(key, opts); reason != "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "invalid_idempotency_key",
				"message":    "invalid " + HeaderIdempotencyKey + " header",
				"fields":     gin.H{HeaderIdempotencyKey: reason},
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if opts.Lookup != nil && c.Request.Method == http.MethodPost {
			found, err := opts.Lookup(c.Request.Context(), IdempotencyScope(c), key, opts.Now().UTC())
			switch {
			case err != nil:
				lg := LoggerFrom(c)
				lg.Warn().Err(err).Msg("idempotency lookup failed")
			case found:
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

func checkIdempotencyKey(key string, opts IdempotencyOptions) string {
	switch {
	case key == "":
		return "must not be empty"
	case len(key) > opts.MaxLen:
		return "must be at most " + strconv.Itoa(opts.MaxLen) + " characters"
	case !opts.Pattern.MatchString(key):
		return "contains characters outside " + opts.Pattern.String()
	}
	return ""
}

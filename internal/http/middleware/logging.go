// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds request correlation and panic recovery:
//
//   - RequestID() gives every request a correlation ID, echoes it in
//     X-Request-ID and tags the active trace span with it.
//   - Recovery() turns panics into the usual JSON 500 envelope.
//   - LoggerFrom() returns the logger attached by RedactingLogger.
//
// Install in the order RequestID(), RedactingLogger(), Recovery().
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HeaderRequestID carries the correlation ID in both directions.
const HeaderRequestID = "X-Request-ID"

const (
	requestIDKey = "requestID"
	loggerKey    = "logger"

	// maxQueryLogLength caps the bytes of raw query string that get logged.
	maxQueryLogLength = 2048
)

// Inbound IDs end up in every log line for the request, so anything other
// than a short token is replaced.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID reuses a well-formed inbound X-Request-ID or generates a UUIDv4.
// The ID is stored in the context (see RequestIDFrom), written to the
// response header and set as the "http.request_id" attribute on the span
// started by otelgin, if any.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if !validRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("http.request_id", rid))
		}
		c.Next()
	}
}

// RequestIDFrom returns the ID set by RequestID, or "" outside that
// middleware.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Recovery logs a recovered panic with its stack through the request logger,
// marks the trace span as failed and, if nothing was written yet, responds
// 500 with code "internal_error". The panic value never reaches the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := RequestIDFrom(c)
			lg := LoggerFrom(c)
			lg.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Msg("panic recovered")

			span := trace.SpanFromContext(c.Request.Context())
			span.SetStatus(codes.Error, "panic")
			span.AddEvent("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(HeaderRequestID, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// RedactingLogger did not run. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate cuts s to max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

package httpserve

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// KeyFunc derives the object key from a request.
type KeyFunc func(r *http.Request) string

// Option configures a Handler.
type Option func(*Handler)

// cacheRule sets Cache-Control on keys matching pattern.
type cacheRule struct {
	pattern *regexp.Regexp
	value   string
}

// defaultCacheRule caches common media files for an hour.
var defaultCacheRule = cacheRule{
	pattern: regexp.MustCompile(`\.(jpg|png|webp|mp4)$`),
	value:   "max-age=3600",
}

// WithBucket sets the bucket objects are served from.
// Without it the client's default bucket is used.
func WithBucket(bucket string) Option {
	return func(h *Handler) {
		h.bucket = bucket
	}
}

// WithKeyFunc overrides how the object key is taken from the request.
func WithKeyFunc(fn KeyFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.keyFunc = fn
		}
	}
}

// WithIndexKey sets the object served for an empty key or a key ending in "/".
// An empty value disables index resolution.
func WithIndexKey(key string) Option {
	return func(h *Handler) {
		h.indexKey = key
	}
}

// WithCacheControl adds a rule setting Cache-Control to value for keys matching pattern.
// The first matching rule wins. Adding a rule drops the built-in media rule.
// It panics if pattern does not compile, like regexp.MustCompile.
func WithCacheControl(pattern, value string) Option {
	re := regexp.MustCompile(pattern)
	return func(h *Handler) {
		if !h.customCache {
			h.cacheRules = nil
			h.customCache = true
		}
		h.cacheRules = append(h.cacheRules, cacheRule{pattern: re, value: value})
	}
}

// WithS3Headers also forwards the provider headers (x-amz-*, server) to the client.
func WithS3Headers(enabled bool) Option {
	return func(h *Handler) {
		h.forwardS3Headers = enabled
	}
}

// WithContentSniffing detects the content type from the body when S3 reports
// a generic binary type or none at all.
func WithContentSniffing(enabled bool) Option {
	return func(h *Handler) {
		h.sniff = enabled
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics registers the handler's collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(h *Handler) {
		h.registerer = reg
	}
}

// defaultKey reads the innermost chi wildcard and falls back to the request path.
// chi matches on the escaped path when one is set, so the wildcard is unescaped.
func defaultKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		keys := rctx.URLParams.Keys
		for i := len(keys) - 1; i >= 0; i-- {
			if keys[i] != "*" {
				continue
			}
			key := rctx.URLParams.Values[i]
			if unescaped, err := url.PathUnescape(key); err == nil {
				key = unescaped
			}
			return key
		}
	}
	return strings.TrimPrefix(r.URL.Path, "/")
}

// Package httpserve serves S3 objects over HTTP.
//
// A Handler maps the request path to an object key, forwards the conditional
// request headers to GetObject and streams the result back, passing S3's
// status code and headers through unchanged.
package httpserve

import (
	"bufio"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

// sniffLen is how much of the body is inspected for content type detection.
const sniffLen = 3072

// hopHeaders are response headers that describe the S3 connection rather than the object.
var hopHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"transfer-encoding": true,
}

// Handler serves objects from one bucket.
type Handler struct {
	client *s3get.Client
	bucket string

	keyFunc          KeyFunc
	indexKey         string
	cacheRules       []cacheRule
	customCache      bool
	forwardS3Headers bool
	sniff            bool

	logger     zerolog.Logger
	registerer prometheus.Registerer
	metrics    *metrics
	buffers    *pool.BufferPool
}

// New creates a Handler. The bucket comes from WithBucket or, failing that,
// the client's default bucket.
func New(client *s3get.Client, opts ...Option) (*Handler, error) {
	if client == nil {
		return nil, errors.NewError("httpserve", errors.ErrInvalidInput).WithMessage("client cannot be nil")
	}

	h := &Handler{
		client:     client,
		keyFunc:    defaultKey,
		indexKey:   "index.html",
		cacheRules: []cacheRule{defaultCacheRule},
		logger:     zerolog.Nop(),
		buffers:    pool.NewBufferPool(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.bucket == "" {
		h.bucket = client.DefaultBucket()
	}
	if h.bucket == "" {
		return nil, errors.NewError("httpserve", errors.ErrInvalidInput).WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateBucketName(h.bucket); err != nil {
		return nil, err
	}

	m, err := newMetrics(h.registerer)
	if err != nil {
		return nil, errors.NewBucketError("httpserve", h.bucket, err).WithMessage("register metrics")
	}
	h.metrics = m

	return h, nil
}

// Routes mounts h on GET and HEAD for every path below the router's root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.ServeHTTP)
	r.Head("/*", h.ServeHTTP)
	return r
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	defer func() {
		h.metrics.observe(rw.statusCode, start, rw.written)
	}()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	key := h.resolveKey(r)
	log := h.logger.With().Str("bucket", h.bucket).Str("key", key).Logger()

	if err := validation.ValidateObjectKey(key); err != nil {
		log.Debug().Err(err).Msg("rejected object key")
		http.Error(rw, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	args, err := s3get.ExtractGetArgs(r.Header)
	if err != nil {
		log.Debug().Err(err).Msg("rejected conditional headers")
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}
	input := &s3.GetObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	}
	s3get.MergeGetArgs(input, args)

	resp, err := h.client.Get(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch object")
		http.Error(rw, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("failed to close object body")
		}
	}()

	if resp.Error != nil {
		h.writeFailure(rw, resp, log)
		return
	}
	h.writeObject(rw, r, key, resp, log)
}

func (h *Handler) resolveKey(r *http.Request) string {
	key := h.keyFunc(r)
	if h.indexKey != "" && (key == "" || strings.HasSuffix(key, "/")) {
		key += h.indexKey
	}
	return key
}

// writeFailure forwards a non-2xx answer from S3. A response without a
// valid status code is answered with 502.
func (h *Handler) writeFailure(w http.ResponseWriter, resp *s3types.Response, log zerolog.Logger) {
	if resp.StatusCode < 100 || resp.StatusCode > 999 {
		log.Error().Err(resp.Error).Int("status", resp.StatusCode).Msg("object request failed without a status")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	event := log.Warn()
	if resp.StatusCode < http.StatusBadRequest {
		event = log.Debug()
	}
	event.Err(resp.Error).
		Int("status", resp.StatusCode).
		Str("request_id", resp.Metadata.RequestID).
		Msg("object request answered with failure")

	h.copyHeaders(w, resp, resp.StatusCode != http.StatusNotModified)
	if resp.StatusCode < http.StatusBadRequest {
		w.WriteHeader(resp.StatusCode)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Del("Content-Length")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.StatusMessage+"\n")
}

// writeObject streams a successful answer.
func (h *Handler) writeObject(
	w http.ResponseWriter,
	r *http.Request,
	key string,
	resp *s3types.Response,
	log zerolog.Logger,
) {
	h.copyHeaders(w, resp, true)
	for _, rule := range h.cacheRules {
		if rule.pattern.MatchString(key) {
			w.Header().Set("Cache-Control", rule.value)
			break
		}
	}

	var body io.Reader = resp.Body
	if h.sniff && r.Method == http.MethodGet && genericType(resp.Headers["content-type"]) {
		br := bufio.NewReaderSize(resp.Body, sniffLen)
		head, _ := br.Peek(sniffLen)
		w.Header().Set("Content-Type", mimetype.Detect(head).String())
		body = br
	}

	w.WriteHeader(resp.StatusCode)
	if r.Method == http.MethodHead {
		return
	}

	size := int64(-1)
	if n, err := strconv.ParseInt(resp.Headers["content-length"], 10, 64); err == nil {
		size = n
	}
	if _, err := h.buffers.Copy(w, body, size); err != nil {
		log.Warn().Err(err).Msg("failed to stream object body")
	}
}

// copyHeaders writes the generic headers and, if enabled, the provider headers.
func (h *Handler) copyHeaders(w http.ResponseWriter, resp *s3types.Response, withEntity bool) {
	set := func(src s3types.Headers) {
		for k, v := range src {
			if hopHeaders[k] {
				continue
			}
			if !withEntity && strings.HasPrefix(k, "content-") {
				continue
			}
			w.Header().Set(k, v)
		}
	}
	set(resp.Headers)
	if h.forwardS3Headers {
		set(resp.S3Headers)
	}
}

func genericType(contentType string) bool {
	switch strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]) {
	case "", "binary/octet-stream", "application/octet-stream":
		return true
	default:
		return false
	}
}

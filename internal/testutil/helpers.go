// Package testutil provides test helper functions.
package testutil

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// TimePtr returns a pointer to the given time.
// This is useful for AWS SDK outputs that return time pointers.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// GenerateTestKey generates a test S3 object key with optional prefix.
// This helps ensure test isolation by using unique keys.
func GenerateTestKey(prefix string) string {
	timestamp := time.Now().UnixNano()
	random := rand.Int63n(100000)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%stest-object-%d-%d", prefix, timestamp, random)
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CalculateETag calculates the ETag S3 assigns to a single-part upload of data.
func CalculateETag(data []byte) string {
	h := md5.Sum(data)
	return fmt.Sprintf(`"%x"`, h)
}

// CreateGetObjectOutput creates a test GetObjectOutput structure.
// ResultMetadata is left empty, as it is for outputs not produced by the SDK stack.
func CreateGetObjectOutput(data []byte, contentType string) *s3.GetObjectOutput {
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ETag:          aws.String(CalculateETag(data)),
		LastModified:  TimePtr(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// FakeObject is an object stored by FakeS3.
type FakeObject struct {
	Data         []byte
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// FakeS3 is an in-memory, path-style S3 endpoint serving GetObject.
// It honors Range, If-Match, If-None-Match, If-Modified-Since and
// If-Unmodified-Since closely enough for client tests.
type FakeS3 struct {
	*httptest.Server

	mu       sync.Mutex
	objects  map[string]FakeObject
	requests []*http.Request
}

// NewFakeS3 starts a FakeS3 server that is closed when the test ends.
func NewFakeS3(t *testing.T) *FakeS3 {
	t.Helper()
	f := &FakeS3{objects: make(map[string]FakeObject)}
	f.Server = httptest.NewServer(f)
	t.Cleanup(f.Close)
	return f
}

// NewRawS3 starts a server that answers every request with h.
func NewRawS3(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// Put stores an object under bucket/key.
func (f *FakeS3) Put(bucket, key string, obj FakeObject) {
	if obj.LastModified.IsZero() {
		obj.LastModified = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = obj
}

// Requests returns the requests received so far.
func (f *FakeS3) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// ServeHTTP implements http.Handler.
func (f *FakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	obj, ok := f.objects[strings.TrimPrefix(r.URL.Path, "/")]
	f.mu.Unlock()

	w.Header().Set("X-Amz-Request-Id", "fake-request-id")
	w.Header().Set("X-Amz-Id-2", "fake-host-id")
	w.Header().Set("Server", "AmazonS3")

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
		return
	}
	if !ok {
		writeS3Error(w, http.StatusNotFound, "NoSuchKey")
		return
	}

	etag := CalculateETag(obj.Data)
	lastModified := obj.LastModified.UTC().Truncate(time.Second)

	if m := r.Header.Get("If-Match"); m != "" && m != etag && m != "*" {
		writeS3Error(w, http.StatusPreconditionFailed, "PreconditionFailed")
		return
	}
	if v := r.Header.Get("If-Unmodified-Since"); v != "" {
		if t, err := http.ParseTime(v); err == nil && lastModified.After(t) {
			writeS3Error(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
	w.Header().Set("Accept-Ranges", "bytes")
	for k, v := range obj.Metadata {
		w.Header().Set("X-Amz-Meta-"+k, v)
	}

	if m := r.Header.Get("If-None-Match"); m != "" && (m == etag || m == "*") {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if v := r.Header.Get("If-Modified-Since"); v != "" {
		if t, err := http.ParseTime(v); err == nil && !lastModified.After(t) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "binary/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	data, status := obj.Data, http.StatusOK
	if rng := r.Header.Get("Range"); rng != "" {
		start, end, ok := parseRange(rng, int64(len(obj.Data)))
		if !ok {
			w.Header().Del("Content-Type")
			writeS3Error(w, http.StatusRequestedRangeNotSatisfiable, "InvalidRange")
			return
		}
		data, status = obj.Data[start:end+1], http.StatusPartialContent
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(obj.Data)))
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}

// parseRange handles the single "bytes=a-b", "bytes=a-" and "bytes=-n" forms.
func parseRange(value string, size int64) (start, end int64, ok bool) {
	value, found := strings.CutPrefix(value, "bytes=")
	if !found || strings.Contains(value, ",") {
		return 0, 0, false
	}
	from, to, found := strings.Cut(value, "-")
	if !found {
		return 0, 0, false
	}
	var err error
	switch {
	case from == "":
		n, err := strconv.ParseInt(to, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		start, end = max(size-n, 0), size-1
	default:
		if start, err = strconv.ParseInt(from, 10, 64); err != nil {
			return 0, 0, false
		}
		end = size - 1
		if to != "" {
			if end, err = strconv.ParseInt(to, 10, 64); err != nil {
				return 0, 0, false
			}
			end = min(end, size-1)
		}
	}
	if start < 0 || start > end || start >= size {
		return 0, 0, false
	}
	return start, end, true
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>%s</Code><Message>%s</Message><RequestId>fake-request-id</RequestId><HostId>fake-host-id</HostId></Error>`,
		code, http.StatusText(status))
}

// NewS3Client returns an SDK client that talks to endpoint with static
// credentials, path-style addressing and no retries.
func NewS3Client(endpoint string) *s3.Client {
	return s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(endpoint),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
}

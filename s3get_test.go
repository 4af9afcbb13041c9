package s3get

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

func objectInput(bucket, key string) *s3.GetObjectInput {
	return &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}
}

func assertLowercase(t *testing.T, h s3types.Headers) {
	t.Helper()
	for k := range h {
		assert.Equal(t, strings.ToLower(k), k)
	}
}

func TestGet_DateOnlyResponse(t *testing.T) {
	srv := testutil.NewRawS3(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Date", "Sat, 01 Jan 2022 00:00:00 GMT")
		w.WriteHeader(http.StatusOK)
	})

	resp, err := Get(context.Background(), testutil.NewS3Client(srv.URL), objectInput("bucket", "file.txt"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.StatusMessage)
	assert.Equal(t, "Sat, 01 Jan 2022 00:00:00 GMT", resp.Headers["date"])
	assert.Empty(t, resp.S3Headers)
	assert.NoError(t, resp.Error)
	assertLowercase(t, resp.Headers)
}

func TestGet_FakeS3(t *testing.T) {
	fake := testutil.NewFakeS3(t)
	data := []byte("hello, world")
	fake.Put("bucket", "dir/hello.txt", testutil.FakeObject{
		Data:        data,
		ContentType: "text/plain",
		Metadata:    map[string]string{"Owner": "ops"},
	})
	api := testutil.NewS3Client(fake.URL)
	etag := testutil.CalculateETag(data)

	t.Run("full object", func(t *testing.T) {
		resp, err := Get(context.Background(), api, objectInput("bucket", "dir/hello.txt"))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, data, body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain", resp.Headers["content-type"])
		assert.Equal(t, etag, resp.Headers["etag"])
		assert.Equal(t, "AmazonS3", resp.S3Headers["server"])
		assert.Equal(t, "ops", resp.S3Headers["x-amz-meta-owner"])
		assert.Equal(t, "fake-request-id", resp.S3Headers["x-amz-request-id"])
		assert.NotContains(t, resp.Headers, "x-amz-request-id")
		assertLowercase(t, resp.Headers)
		assertLowercase(t, resp.S3Headers)

		assert.Equal(t, "fake-request-id", resp.Metadata.RequestID)
		assert.Equal(t, "fake-host-id", resp.Metadata.ExtendedRequestID)
		assert.Equal(t, http.StatusOK, resp.Metadata.HTTPStatusCode)
	})

	t.Run("range from request headers", func(t *testing.T) {
		args, err := ExtractGetArgs(http.Header{"Range": {"bytes=0-4"}, "Accept": {"*/*"}})
		require.NoError(t, err)
		in := objectInput("bucket", "dir/hello.txt")
		MergeGetArgs(in, args)

		resp, err := Get(context.Background(), api, in)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
		assert.Equal(t, "bytes 0-4/12", resp.Headers["content-range"])
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := Get(context.Background(), api, objectInput("bucket", "missing.txt"))
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Not Found", resp.StatusMessage)
		assert.Equal(t, "fake-request-id", resp.S3Headers["x-amz-request-id"])
		assert.Equal(t, "fake-request-id", resp.Metadata.RequestID)
		assert.Error(t, resp.Error)
		assert.Equal(t, errors.ErrObjectNotFound, errors.StatusError(resp.StatusCode))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("not modified", func(t *testing.T) {
		args, err := ExtractGetArgs(http.Header{"If-None-Match": {etag}})
		require.NoError(t, err)
		in := objectInput("bucket", "dir/hello.txt")
		MergeGetArgs(in, args)

		resp, err := Get(context.Background(), api, in)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotModified, resp.StatusCode)
		assert.Equal(t, "Not Modified", resp.StatusMessage)
		assert.Error(t, resp.Error)
		assert.Equal(t, etag, resp.Headers["etag"])
	})

	t.Run("precondition failed", func(t *testing.T) {
		args, err := ExtractGetArgs(http.Header{
			"If-Unmodified-Since": {"2021-01-01T00:00:00Z"},
		})
		require.NoError(t, err)
		in := objectInput("bucket", "dir/hello.txt")
		MergeGetArgs(in, args)

		resp, err := Get(context.Background(), api, in)
		require.NoError(t, err)
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	})

	t.Run("conditional headers reach S3", func(t *testing.T) {
		since := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
		in := objectInput("bucket", "dir/hello.txt")
		in.IfModifiedSince = &since
		in.IfMatch = aws.String(etag)

		resp, err := Get(context.Background(), api, in)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotModified, resp.StatusCode)

		reqs := fake.Requests()
		last := reqs[len(reqs)-1]
		assert.Equal(t, etag, last.Header.Get("If-Match"))
		assert.Equal(t, "Mon, 01 May 2023 12:00:00 GMT", last.Header.Get("If-Modified-Since"))
	})
}

func TestGet_ConnectionRefused(t *testing.T) {
	srv := testutil.NewRawS3(t, func(http.ResponseWriter, *http.Request) {})
	endpoint := srv.URL
	srv.Close()

	resp, err := Get(context.Background(), testutil.NewS3Client(endpoint), objectInput("bucket", "file.txt"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.IsNoResponse(err))

	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, "get", e.Op)
	assert.Equal(t, "bucket", e.Bucket)
}

func TestGet_InvalidInput(t *testing.T) {
	mock := &testutil.MockS3Client{}
	_, err := Get(context.Background(), mock, &s3.GetObjectInput{Bucket: aws.String("bucket")})
	assert.True(t, errors.IsInvalidInput(err))
	assert.Empty(t, mock.Calls())
}

func TestExtractGetArgs_InvalidDate(t *testing.T) {
	_, err := ExtractGetArgs(http.Header{"If-Modified-Since": {"last tuesday"}})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidDate(err))
}

func TestSplitResponseHeaders(t *testing.T) {
	generic, provider := SplitResponseHeaders(s3types.Headers{
		"Content-Type":     "A",
		"X-Amz-Request-Id": "id",
		"Server":           "AmazonS3",
	})
	assert.Equal(t, s3types.Headers{"content-type": "A"}, generic)
	assert.Equal(t, s3types.Headers{"x-amz-request-id": "id", "server": "AmazonS3"}, provider)
}

func TestFlattenHeader(t *testing.T) {
	flat := FlattenHeader(http.Header{
		"Accept-Encoding": {"gzip", "br"},
		"X-Amz-Meta-A":    {"1"},
	})
	assert.Equal(t, s3types.Headers{"accept-encoding": "gzip, br", "x-amz-meta-a": "1"}, flat)
}

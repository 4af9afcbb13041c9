package s3get

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/headers"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/operations/get"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/params"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

// GetObjectAPI is the part of the S3 API that Get needs. *s3.Client satisfies it.
type GetObjectAPI = s3api.GetObjectAPI

// Get performs exactly one GetObject call with input, unchanged, and returns
// a Response ready to be written to an http.ResponseWriter.
//
// When S3 answers with a non-2xx status the call still succeeds: the returned
// Response carries the real status code, status message and headers, an empty
// Body, and the SDK error in Response.Error. An error is returned only when no
// HTTP response was received at all, or when input has no bucket or key.
//
// The caller must close Response.Body.
func Get(
	ctx context.Context,
	api GetObjectAPI,
	input *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3types.Response, error) {
	return get.New(api).Get(ctx, input, optFns...)
}

// ExtractGetArgs maps the conditional request headers (Range, If-Match,
// If-None-Match, If-Modified-Since, If-Unmodified-Since) onto a partial
// GetObjectInput. Header names are matched case-insensitively and every other
// header is ignored. A date header that is neither an HTTP date nor ISO-8601
// yields an error matching errors.ErrInvalidDate.
func ExtractGetArgs(h http.Header) (*s3.GetObjectInput, error) {
	return params.Extract(h)
}

// MergeGetArgs copies the conditional parameters set on args onto input.
func MergeGetArgs(input, args *s3.GetObjectInput) {
	params.Merge(input, args)
}

// SplitResponseHeaders lowercases every header name and partitions the map into
// generic headers and provider headers (x-amz-* and server).
func SplitResponseHeaders(h s3types.Headers) (generic, provider s3types.Headers) {
	return headers.Split(h)
}

// FlattenHeader turns an http.Header into a Headers map, joining repeated
// values with ", ".
func FlattenHeader(h http.Header) s3types.Headers {
	return headers.Flatten(h)
}

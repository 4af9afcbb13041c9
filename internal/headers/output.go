package headers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

// FromOutput rebuilds the response headers from the typed fields of a GetObject output.
// It is used when the raw HTTP response is not available, e.g. with a mocked API.
func FromOutput(out *s3.GetObjectOutput) s3types.Headers {
	h := make(s3types.Headers)
	if out == nil {
		return h
	}

	set := func(name string, value *string) {
		if v := aws.ToString(value); v != "" {
			h[name] = v
		}
	}

	set("accept-ranges", out.AcceptRanges)
	set("cache-control", out.CacheControl)
	set("content-disposition", out.ContentDisposition)
	set("content-encoding", out.ContentEncoding)
	set("content-language", out.ContentLanguage)
	set("content-range", out.ContentRange)
	set("content-type", out.ContentType)
	set("etag", out.ETag)
	set("expires", out.ExpiresString)
	set("x-amz-version-id", out.VersionId)

	if out.ContentLength != nil {
		h["content-length"] = strconv.FormatInt(*out.ContentLength, 10)
	}
	if out.LastModified != nil {
		h["last-modified"] = out.LastModified.UTC().Format(http.TimeFormat)
	}
	if out.StorageClass != "" {
		h["x-amz-storage-class"] = string(out.StorageClass)
	}
	if out.ServerSideEncryption != "" {
		h["x-amz-server-side-encryption"] = string(out.ServerSideEncryption)
	}
	for key, value := range out.Metadata {
		h["x-amz-meta-"+strings.ToLower(key)] = value
	}

	return h
}

// Package headers classifies S3 response headers.
//
// Headers that originate from the storage provider (server and x-amz-*) are
// separated from generic HTTP headers so that callers can decide whether to
// re-expose them to their own clients.
package headers

import (
	"net/http"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

const (
	// ProviderPrefix is the prefix shared by all S3-specific response headers.
	ProviderPrefix = "x-amz-"

	// ServerHeader is the server header, always "AmazonS3" for S3 itself.
	ServerHeader = "server"
)

// IsProvider reports whether a header name belongs to the storage provider.
// The name is compared case-insensitively.
func IsProvider(name string) bool {
	name = strings.ToLower(name)
	return strings.HasPrefix(name, ProviderPrefix) || name == ServerHeader
}

// Split partitions h into generic headers and provider headers.
// Every key in the output is lowercase and appears in exactly one of the two maps.
func Split(h s3types.Headers) (generic, provider s3types.Headers) {
	generic = make(s3types.Headers, len(h))
	provider = make(s3types.Headers)
	for key, value := range h {
		name := strings.ToLower(key)
		if IsProvider(name) {
			provider[name] = value
		} else {
			generic[name] = value
		}
	}
	return generic, provider
}

// Flatten converts a multi-valued http.Header into a Headers map.
// Keys are lowercased and repeated values are joined with ", ".
func Flatten(h http.Header) s3types.Headers {
	out := make(s3types.Headers, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		name := strings.ToLower(key)
		joined := strings.Join(values, ", ")
		if existing, ok := out[name]; ok {
			joined = existing + ", " + joined
		}
		out[name] = joined
	}
	return out
}

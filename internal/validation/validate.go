package validation

import (
	"net/netip"
	"slices"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
)

// maxKeyLength is the S3 limit on object key length in bytes.
const maxKeyLength = 1024

// ValidateGetInput checks that a GetObject input names a bucket and a key.
// It deliberately leaves stricter naming rules to S3 so that legacy bucket
// names and arbitrary keys keep working.
func ValidateGetInput(input *s3.GetObjectInput) error {
	if input == nil {
		return errors.NewError("get", errors.ErrInvalidInput).WithMessage("input cannot be nil")
	}
	bucket, key := aws.ToString(input.Bucket), aws.ToString(input.Key)
	if bucket == "" {
		return errors.NewObjectError("get", bucket, key, errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	if key == "" {
		return errors.NewObjectError("get", bucket, key, errors.ErrInvalidInput).
			WithMessage("object key cannot be empty")
	}
	return nil
}

// bucketRule is one DNS naming rule for bucket names.
type bucketRule struct {
	broken  func(bucket string) bool
	message string
}

var bucketRules = []bucketRule{
	{
		broken:  func(b string) bool { return len(b) < 3 || len(b) > 63 },
		message: "bucket name must be between 3 and 63 characters long",
	},
	{
		broken:  func(b string) bool { return strings.IndexFunc(b, invalidBucketChar) >= 0 },
		message: "bucket name can only contain lowercase letters, numbers, dots, and hyphens",
	},
	{
		broken: func(b string) bool {
			return strings.HasPrefix(b, "-") || strings.HasPrefix(b, ".") ||
				strings.HasSuffix(b, "-") || strings.HasSuffix(b, ".")
		},
		message: "bucket name cannot start or end with a hyphen or dot",
	},
	{
		broken: func(b string) bool {
			_, err := netip.ParseAddr(b)
			return err == nil
		},
		message: "bucket name cannot be formatted as an IP address",
	},
	{
		broken:  func(b string) bool { return strings.HasPrefix(b, "xn--") || strings.HasSuffix(b, "-s3alias") },
		message: "bucket name cannot use a reserved prefix or suffix",
	},
	{
		broken:  func(b string) bool { return strings.Contains(b, "..") || strings.Contains(b, "--") },
		message: "bucket name cannot contain two adjacent periods or hyphens",
	},
	{
		broken:  func(b string) bool { return b == "localhost" },
		message: "bucket name cannot be a reserved word",
	},
}

// ValidateBucketName validates that a bucket name is DNS-compliant according to AWS S3 rules.
// Returns ErrInvalidBucketName if the bucket name is invalid.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}
	for _, rule := range bucketRules {
		if rule.broken(bucket) {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage(rule.message)
		}
	}
	return nil
}

// ValidateObjectKey validates an object key taken from an untrusted source such
// as a request path. It rejects traversal sequences and control characters.
func ValidateObjectKey(key string) error {
	var message string
	switch {
	case key == "":
		message = "object key cannot be empty"
	case hasPathTraversal(key):
		message = "object key cannot contain path traversal sequences"
	case len(key) > maxKeyLength:
		message = "object key cannot exceed 1024 characters"
	case strings.IndexFunc(key, unicode.IsControl) >= 0:
		message = "object key cannot contain control characters"
	default:
		return nil
	}
	return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
		WithKey(key).
		WithMessage(message)
}

func invalidBucketChar(r rune) bool {
	return !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || r == '.' || r == '-')
}

// hasPathTraversal reports whether key is absolute or has a ".." path segment.
// Dots inside a segment, as in "summer..2022.jpg", are allowed.
func hasPathTraversal(key string) bool {
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, "\\") {
		return true
	}
	// Windows drive letters, e.g. C:\ or C:/
	if len(key) >= 3 && key[1] == ':' && (key[2] == '\\' || key[2] == '/') {
		return true
	}
	segments := strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '\\' })
	return slices.Contains(segments, "..")
}

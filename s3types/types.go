// Package s3types provides shared type definitions for the s3get module.
package s3types

import (
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Headers maps lowercase header names to their values.
type Headers map[string]string

// Metadata carries diagnostic information about the GetObject call.
// It is informational only and never drives control flow.
type Metadata struct {
	// HTTPStatusCode is the status code of the response, zero if none was received
	HTTPStatusCode int

	// RequestID is the x-amz-request-id assigned by S3
	RequestID string

	// ExtendedRequestID is the x-amz-id-2 host identifier assigned by S3
	ExtendedRequestID string

	// Attempts is the number of attempts the SDK made, zero when unknown
	Attempts int
}

// Response is the normalized result of a single GetObject call.
//
// Body is a single-consumer stream that the caller must drain or close. For
// non-2xx responses the SDK has already consumed the XML error payload, so
// Body is empty.
type Response struct {
	// Body is the object content
	Body io.ReadCloser

	// Headers holds generic response headers like content-type and etag
	Headers Headers

	// S3Headers holds provider-specific headers: server and x-amz-*
	S3Headers Headers

	// StatusCode is the 3-digit HTTP status code, e.g. 404
	StatusCode int

	// StatusMessage is the reason phrase, e.g. "OK" or "Not Found"
	StatusMessage string

	// Metadata is diagnostic information about the call
	Metadata Metadata

	// Error is the error returned by the SDK for responses that were received
	// but are not 2xx. It is nil on success.
	Error error
}

// Configuration types for functional options

// ClientConfig holds configuration for the s3get client.
type ClientConfig struct {
	Region           string
	Endpoint         string
	MaxRetries       int
	Timeout          time.Duration
	ForcePathStyle   bool
	CustomAWSConfig  *aws.Config
	RetryMode        string
	CustomHTTPClient *http.Client
	DefaultBucket    string
	Credentials      aws.CredentialsProvider
}

// Option is a functional option for configuring the s3get client.
type Option func(*ClientConfig)

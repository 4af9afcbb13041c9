// Package errors provides error types and handling for S3 object fetches.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a fetch error with context about the operation that failed.
// It wraps the underlying AWS SDK error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "get", "extractGetArgs")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3get.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3get.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3get.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3get.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// noResponseError joins the transport failure with ErrNoResponse so that both
// errors.Is(err, ErrNoResponse) and errors.As into the SDK error types work.
type noResponseError struct {
	err error
}

func (e *noResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrNoResponse, e.err)
}

func (e *noResponseError) Unwrap() []error {
	return []error{ErrNoResponse, e.err}
}

// NewNoResponseError creates an Error for a fetch that never produced an HTTP response.
func NewNoResponseError(op, bucket, key string, err error) *Error {
	return NewObjectError(op, bucket, key, &noResponseError{err: err})
}

// Sentinel errors for common fetch failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3get: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3get: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3get: invalid object key")

	// ErrInvalidDate indicates that a date-valued request header could not be parsed
	ErrInvalidDate = errors.New("s3get: invalid date")

	// ErrNoResponse indicates that the request failed before any HTTP response was received
	ErrNoResponse = errors.New("s3get: no response received")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3get: object not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3get: access denied")

	// ErrPreconditionFailed indicates that an If-Match or If-Unmodified-Since condition failed
	ErrPreconditionFailed = errors.New("s3get: precondition failed")

	// ErrNotModified indicates that an If-None-Match or If-Modified-Since condition matched
	ErrNotModified = errors.New("s3get: not modified")

	// ErrInvalidRange indicates that the requested range is invalid
	ErrInvalidRange = errors.New("s3get: invalid range")
)

// StatusError returns the sentinel error matching an S3 response status code,
// or nil when the status has no dedicated sentinel.
func StatusError(status int) error {
	switch status {
	case http.StatusNotModified:
		return ErrNotModified
	case http.StatusForbidden:
		return ErrAccessDenied
	case http.StatusNotFound:
		return ErrObjectNotFound
	case http.StatusPreconditionFailed:
		return ErrPreconditionFailed
	case http.StatusRequestedRangeNotSatisfiable:
		return ErrInvalidRange
	default:
		return nil
	}
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidDate checks if an error indicates a malformed date header.
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

// IsNoResponse checks if an error indicates that no HTTP response was received.
func IsNoResponse(err error) bool {
	return errors.Is(err, ErrNoResponse)
}

// Package testutil provides a builder for creating mock S3 clients.
package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// WithGetObject configures the GetObject behavior.
func (b *MockBuilder) WithGetObject(
	fn func(context.Context, *s3.GetObjectInput) (*s3.GetObjectOutput, error),
) *MockBuilder {
	b.client.GetObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return fn(ctx, params)
	}
	return b
}

// WithObject configures GetObject to return data with the given content type.
func (b *MockBuilder) WithObject(data []byte, contentType string) *MockBuilder {
	return b.WithGetObject(func(context.Context, *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return CreateGetObjectOutput(data, contentType), nil
	})
}

// WithResponseError configures GetObject to fail with an HTTP response of the given status.
func (b *MockBuilder) WithResponseError(status int, header http.Header, code string) *MockBuilder {
	return b.WithGetObject(func(context.Context, *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return nil, NewResponseError(status, header.Clone(), code, "test-request-id")
	})
}

// WithObjectNotFound configures the mock to return a 404 NoSuchKey response.
func (b *MockBuilder) WithObjectNotFound() *MockBuilder {
	return b.WithResponseError(http.StatusNotFound, http.Header{
		"Content-Type": {"application/xml"},
		"X-Amz-Id-2":   {"test-host-id"},
	}, "NoSuchKey")
}

// WithTransportError configures GetObject to fail before any response is received.
func (b *MockBuilder) WithTransportError(err error) *MockBuilder {
	return b.WithGetObject(func(context.Context, *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return nil, NewTransportError(err)
	})
}

// WithDelay makes GetObject wait for d or until the context is done.
func (b *MockBuilder) WithDelay(d time.Duration) *MockBuilder {
	next := b.client.GetObjectFunc
	b.client.GetObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, NewTransportError(ctx.Err())
		}
		if next != nil {
			return next(ctx, params, optFns...)
		}
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(nil))}, nil
	}
	return b
}

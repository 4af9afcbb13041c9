// Package testutil provides test utilities and mocks for S3 object fetches.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/s3api"
)

var _ s3api.GetObjectAPI = (*MockS3Client)(nil)

// MockS3Client is a mock implementation of the GetObjectAPI interface for testing.
// It records every input it receives.
type MockS3Client struct {
	GetObjectFunc func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)

	mu    sync.Mutex
	calls []*s3.GetObjectInput
}

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()

	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

// Calls returns the inputs passed to GetObject so far.
func (m *MockS3Client) Calls() []*s3.GetObjectInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*s3.GetObjectInput(nil), m.calls...)
}

// LastCall returns the most recent GetObject input, or nil.
func (m *MockS3Client) LastCall() *s3.GetObjectInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// NewResponseError builds the error chain the SDK returns when S3 answers
// GetObject with a non-2xx status. The header is sent as-is on the response.
func NewResponseError(status int, header http.Header, code, requestID string) error {
	if header == nil {
		header = http.Header{}
	}
	if requestID != "" && header.Get("X-Amz-Request-Id") == "" {
		header.Set("X-Amz-Request-Id", requestID)
	}
	resp := &http.Response{
		StatusCode: status,
		Status:     strconv.Itoa(status) + " " + http.StatusText(status),
		Header:     header,
		Body:       http.NoBody,
	}
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "GetObject",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: resp},
				Err:      &smithy.GenericAPIError{Code: code, Message: http.StatusText(status)},
			},
			RequestID: requestID,
		},
	}
}

// NewTransportError builds the error chain the SDK returns when the request
// never produced an HTTP response. Like the SDK, it still carries an empty
// zero-status response around the send error.
func NewTransportError(err error) error {
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "GetObject",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{Header: http.Header{}}},
				Err:      &smithyhttp.RequestSendError{Err: err},
			},
		},
	}
}

// NewEmptyResponseError builds a response error around a zero-status
// response without a send error in the chain.
func NewEmptyResponseError(err error) error {
	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: "GetObject",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{Header: http.Header{}}},
				Err:      err,
			},
		},
	}
}

// Package s3api defines interfaces for S3 operations to enable testing and mocking.
package s3api

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetObjectAPI defines the single S3 operation used by this module.
// This interface allows for mocking in tests and alternative implementations.
type GetObjectAPI interface {
	// GetObject retrieves an object from S3
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Verify that the AWS S3 client implements our interface
var _ GetObjectAPI = (*s3.Client)(nil)

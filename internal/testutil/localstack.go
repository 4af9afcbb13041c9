// Package testutil provides LocalStack integration test utilities.
package testutil

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/testcontainers/testcontainers-go/wait"
)

const localStackImage = "localstack/localstack:latest"

// StartLocalStack runs a LocalStack container for the duration of the test and
// returns the S3 endpoint URL. The container is terminated by t.Cleanup.
func StartLocalStack(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := localstack.Run(ctx, localStackImage,
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").
				WithPort("4566").
				WithStartupTimeout(2*time.Minute),
		),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start LocalStack")

	endpoint, err := container.PortEndpoint(ctx, "4566/tcp", "http")
	require.NoError(t, err, "resolve LocalStack endpoint")
	return endpoint
}

// SeedBucket creates bucket on the SDK client and stores objects in it, keyed
// by object key. Objects and bucket are removed when the test ends.
func SeedBucket(t *testing.T, client *s3.Client, bucket string, objects map[string]FakeObject) {
	t.Helper()
	ctx := context.Background()

	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err, "create bucket %s", bucket)

	for key, obj := range objects {
		contentType := obj.ContentType
		if contentType == "" {
			contentType = "binary/octet-stream"
		}
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(obj.Data),
			ContentType: aws.String(contentType),
			Metadata:    obj.Metadata,
		})
		require.NoError(t, err, "put %s", key)
	}

	t.Cleanup(func() {
		for key := range objects {
			_, _ = client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		}
		if _, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
			t.Logf("delete bucket %s: %v", bucket, err)
		}
	})
}

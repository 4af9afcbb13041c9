// Package s3get provides client initialization and configuration.
//
// The Client wraps an S3 GetObject API with configurable options for
// region, endpoint, retries and credentials.
package s3get

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/operations/get"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

// Client represents an S3 client with configurable options.
// It is safe for concurrent use.
type Client struct {
	// s3Client is the underlying GetObject API, usually an *s3.Client
	s3Client s3api.GetObjectAPI

	// config holds the AWS configuration
	config aws.Config

	// defaultBucket is used by Get when the input names no bucket
	defaultBucket string

	// mu protects concurrent access to client configuration
	mu sync.RWMutex
}

// New creates a new S3 client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := s3get.New(
//	    s3get.WithRegion("us-west-2"),
//	    s3get.WithMaxRetries(3),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{
		MaxRetries:     3,
		ForcePathStyle: false,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}
	if clientCfg.RetryMode != "" {
		mode, err := aws.ParseRetryMode(clientCfg.RetryMode)
		if err != nil {
			return nil, errors.NewError("client initialization", errors.ErrInvalidInput).
				WithMessage(err.Error())
		}
		cfg.RetryMode = mode
	}
	if clientCfg.Credentials != nil {
		cfg.Credentials = clientCfg.Credentials
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	// A custom HTTP client wins over the timeout shortcut
	switch {
	case clientCfg.CustomHTTPClient != nil:
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		s3Client:      s3.NewFromConfig(cfg, s3Opts...),
		config:        cfg,
		defaultBucket: clientCfg.DefaultBucket,
	}, nil
}

// NewWithClient creates a new client with a custom GetObjectAPI implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.GetObjectAPI, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}
	return &Client{
		s3Client:      s3Client,
		config:        aws.Config{},
		defaultBucket: clientCfg.DefaultBucket,
	}
}

// Get fetches one object. The default bucket is used when input names none.
// See the package-level Get for the response contract.
func (c *Client) Get(
	ctx context.Context,
	input *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3types.Response, error) {
	c.mu.RLock()
	api, bucket := c.s3Client, c.defaultBucket
	c.mu.RUnlock()

	if input != nil && aws.ToString(input.Bucket) == "" && bucket != "" {
		in := *input
		in.Bucket = aws.String(bucket)
		input = &in
	}

	return get.New(api).Get(ctx, input, optFns...)
}

// API returns the underlying GetObject API.
func (c *Client) API() s3api.GetObjectAPI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s3Client
}

// Region returns the region the client was configured with.
func (c *Client) Region() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Region
}

// DefaultBucket returns the bucket used when an input names none.
func (c *Client) DefaultBucket() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultBucket
}

// Close releases any resources held by the client.
// Currently a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nil
}

// Package internal contains private implementation details for the s3get module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - headers: response header flattening and generic/provider classification
//   - params: request header to GetObject parameter mapping
//   - operations: the GetObject call and its response normalization
//   - validation: input validation logic
//   - pool: pooled copy buffers for streaming bodies
//   - s3api: the S3 API surface the module depends on
//   - testutil: mocks, a fake S3 endpoint and LocalStack helpers
package internal

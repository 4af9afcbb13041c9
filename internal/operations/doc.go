// Package operations contains the S3 operation implementations.
// Each operation is isolated into its own subpackage.
package operations

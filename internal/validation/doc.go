// Package validation provides centralized input validation logic.
// This includes bucket name validation, object key validation and GetObject input checks.
//
// Request-derived keys are checked before being sent to AWS so that traversal
// sequences and control characters never reach S3.
package validation

// Package pool provides reusable copy buffers for streaming object bodies.
package pool

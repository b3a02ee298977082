// Package errors provides the structured error type shared by batchkit
// packages. Every failure surfaced by an iteration carries a machine-readable
// ErrorCode and, where one exists, the underlying cause so callers can still
// match it with errors.Is / errors.As.
package errors

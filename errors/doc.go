// Package errors provides the structured error type shared by xhrkit
// packages. Every synchronous misuse of a request object surfaces as an
// *AppError carrying a machine-readable ErrorCode so callers can tell a
// precondition violation apart from an unsupported feature at the call site.
package errors

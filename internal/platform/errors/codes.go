// Package errors provides structured, coded error handling for inkpress.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Token errors
	CodeTokenMalformed        Code = "TOKEN_MALFORMED"
	CodeTokenExpired          Code = "TOKEN_EXPIRED"
	CodeTokenInvalidSignature Code = "TOKEN_INVALID_SIGNATURE"

	// Session errors
	CodeCorruptSession Code = "CORRUPT_SESSION"

	// User errors
	CodeUserNotFound   Code = "USER_NOT_FOUND"
	CodeUserEmailTaken Code = "USER_EMAIL_TAKEN"

	// Resource errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeNotAuthorized   Code = "NOT_AUTHORIZED"
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// Input errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// HTTPStatus maps an error code to the status the HTTP handlers surface.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - unusable input or credential material
	case CodeTokenMalformed,
		CodeTokenExpired,
		CodeTokenInvalidSignature,
		CodeCorruptSession,
		CodeInvalidArgument:
		return http.StatusBadRequest

	// Unauthorized - no usable identity on a protected route
	case CodeUnauthenticated:
		return http.StatusUnauthorized

	// Forbidden - identity present but not allowed
	case CodeNotAuthorized:
		return http.StatusForbidden

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeUserNotFound:
		return http.StatusNotFound

	// Conflict - unique resource constraint
	case CodeUserEmailTaken:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

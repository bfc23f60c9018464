// Package common contains constants and tiny helpers shared across the
// console packages.
package common

// HTTP headers set on every outbound API request.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json;charset=UTF-8"
)

// Local storage keys. The session and the bearer token are kept apart so
// either can be cleared on its own.
const (
	SessionKey = "library_login"
	TokenKey   = "token"
)

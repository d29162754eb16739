// Package common contains constants and helpers shared by the tracker client
// packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the token in the Authorization header.
	BearerScheme = "Bearer"

	// RequestIDHeaderName tags each outbound request for log correlation.
	RequestIDHeaderName = "X-Request-ID"
)

// Persisted session keys in the local metadata store.
const (
	MetadataKeyToken = "token"
	MetadataKeyUser  = "user"
)

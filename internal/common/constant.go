// Package common holds constants shared by the transport and storage layers.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerScheme prefixes the credential in AuthorizationHeader.
	BearerScheme = "Bearer "
)

// Metadata keys in the local key/value store.
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// Package common contains shared constants and sentinel errors used across
// the application's components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in front of the token.
const BearerScheme = "Bearer"

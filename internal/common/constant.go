// Package common contains shared constants and sentinel errors used across
// qrregistry components.
package common

// AuthorizationHeaderName carries the bearer access token on HTTP requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RoleAdmin is the role claim that unlocks administrative capabilities.
const RoleAdmin = "admin"

// RoleUser is the default role assigned at registration.
const RoleUser = "user"

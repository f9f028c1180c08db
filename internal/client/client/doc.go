// Package client contains the API client used by the qrregistry CLI.
//
// # Overview
//
// Client is the transport-agnostic contract: account operations
// (Register, Login, Logout), record CRUD, the national-id existence check,
// scanning a decoded QR payload, QR image download, share links and the
// administrative listing. RESTClient implements it over the HTTP API with
// github.com/go-resty/resty/v2. It keeps the access/refresh token pair in
// memory, attaches the access token as a bearer header, and transparently
// refreshes it once when the server answers TOKEN_EXPIRED.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx answers become
// *APIError values which unwrap to ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrConflict, ErrInvalidArgument or ErrServer.
//
// RESTClient is safe for concurrent use; all calls honor context cancellation.
package client

// Package client talks to the library REST API.
//
// # Overview
//
// HTTPClient is the single gateway every call goes through. It prefixes the
// configured base URL, attaches the bearer token and a request id, applies
// the request timeout and unwraps the {code, data, msg} response envelope.
// The per-resource files (auth, books, bookitems, readers, borrows,
// categories) are thin typed wrappers over it; the Client interface
// aggregates them.
//
// # Error Handling
//
// Callers match with errors.Is / errors.As:
//
//   - ErrUnavailable: transport failure or timeout, the server never answered.
//   - ErrUnauthorized: HTTP 401. The UnauthorizedHandler has already run.
//   - ErrNotFound: HTTP 404.
//   - ErrEmptyResponse: success envelope without data where data was expected.
//   - *APIError: any other rejection; Msg carries the server text.
//
// No call is retried.
package client

// Package models defines the library entities exchanged with the REST API
// and the console session state.
//
// JSON field names follow what the server emits (camelCase). Enumerations
// coming from the server (copy status, borrow status, reader type) are open
// string types: values the client does not know survive a round trip and
// render as "unknown" instead of failing to decode.
package models

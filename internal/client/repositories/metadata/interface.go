// Package metadata persists small string values (session, bearer token)
// for the console in the local SQLite store. It plays the role browser
// local storage plays for a web client.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns ("", false, nil) when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

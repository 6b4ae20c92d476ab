// Package kv defines the persistence collaborator contract: a key-value
// store of serialized text reachable by name. The entity store is the only
// caller; it treats a missing or unreadable value as an empty collection.
package kv

import "context"

// Store is a byte/string key-value store. Get returns ok=false when the key
// is absent; absence is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}

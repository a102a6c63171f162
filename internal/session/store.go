// Package session maps opaque session tokens to user identities.
// Storage is injectable: an in-memory map for tests and development,
// redis for production.
package session

import (
	"context"
)

// Store persists token -> user id mappings. Delete on an absent token
// is not an error.
type Store interface {
	Put(ctx context.Context, token string, userID uint64) error
	Get(ctx context.Context, token string) (uint64, bool, error)
	Delete(ctx context.Context, token string) error
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	err := store.Put(ctx, "token-1", 42)
	assert.Nil(t, err)

	userID, ok, err := store.Get(ctx, "token-1")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), userID)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	_, ok, err := store.Get(context.Background(), "no-such-token")
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	err := store.Put(ctx, "token-1", 42)
	assert.Nil(t, err)

	err = store.Delete(ctx, "token-1")
	assert.Nil(t, err)

	_, ok, err := store.Get(ctx, "token-1")
	assert.Nil(t, err)
	assert.False(t, ok)

	// deleting again is not an error
	err = store.Delete(ctx, "token-1")
	assert.Nil(t, err)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(-time.Second)
	ctx := context.Background()

	err := store.Put(ctx, "token-1", 42)
	assert.Nil(t, err)

	_, ok, err := store.Get(ctx, "token-1")
	assert.Nil(t, err)
	assert.False(t, ok)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccountCache_DisabledWithoutClient(t *testing.T) {
	cache := NewAccountCache(nil, time.Minute)

	if _, ok := cache.Get(context.Background(), uuid.New()); ok {
		t.Fatalf("disabled cache reported a hit")
	}
	// Set must be a safe no-op.
	cache.Set(context.Background(), testAccount())

	var nilCache *AccountCache
	if _, ok := nilCache.Get(context.Background(), uuid.New()); ok {
		t.Fatalf("nil cache reported a hit")
	}
}

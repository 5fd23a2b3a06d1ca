package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryAliasMappingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		cache := NewInMemoryAliasMappingCache()
		_, ok := cache.Get(ctx, "Summer 26")
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		cache := NewInMemoryAliasMappingCache()
		id := uuid.New()
		cache.Set(ctx, "Summer 26", id)

		cached, ok := cache.Get(ctx, "Summer 26")
		assert.True(t, ok)
		assert.Equal(t, id, cached)
	})

	t.Run("keys are case sensitive", func(t *testing.T) {
		cache := NewInMemoryAliasMappingCache()
		cache.Set(ctx, "Summer 26", uuid.New())

		_, ok := cache.Get(ctx, "summer 26")
		assert.False(t, ok)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		cache := NewInMemoryAliasMappingCache()
		cache.Set(ctx, "Summer 26", uuid.New())
		cache.Invalidate(ctx, "Summer 26")

		_, ok := cache.Get(ctx, "Summer 26")
		assert.False(t, ok)
	})

	t.Run("safe under concurrent access", func(t *testing.T) {
		cache := NewInMemoryAliasMappingCache()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					cache.Set(ctx, "Summer 26", uuid.New())
					cache.Get(ctx, "Summer 26")
					cache.Invalidate(ctx, "Summer 26")
				}
			}()
		}
		wg.Wait()
	})
}

package alias

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	aliasdomain "github.com/wholesale/backend/internal/domain/alias"
)

// MockRepository is a mock implementation of the alias Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindMapped(ctx context.Context, rawValue string) (*aliasdomain.Mapping, error) {
	args := m.Called(ctx, rawValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aliasdomain.Mapping), args.Error(1)
}

func (m *MockRepository) RecordSignal(ctx context.Context, rawValue string) error {
	args := m.Called(ctx, rawValue)
	return args.Error(0)
}

func (m *MockRepository) RecordObservation(ctx context.Context, rawValue string) error {
	args := m.Called(ctx, rawValue)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*aliasdomain.Mapping, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aliasdomain.Mapping), args.Error(1)
}

func (m *MockRepository) ListUnresolved(ctx context.Context) ([]aliasdomain.Mapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aliasdomain.Mapping), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, mapping *aliasdomain.Mapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

// memoryCache is a trivial MappingCache for tests
type memoryCache struct {
	entries map[string]uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]uuid.UUID)}
}

func (c *memoryCache) Get(_ context.Context, rawValue string) (uuid.UUID, bool) {
	id, ok := c.entries[rawValue]
	return id, ok
}

func (c *memoryCache) Set(_ context.Context, rawValue string, canonicalID uuid.UUID) {
	c.entries[rawValue] = canonicalID
}

func (c *memoryCache) Invalidate(_ context.Context, rawValue string) {
	delete(c.entries, rawValue)
}

func mappedFixture(t *testing.T, rawValue string, canonicalID uuid.UUID) *aliasdomain.Mapping {
	t.Helper()
	mapping, err := aliasdomain.NewSignal(rawValue)
	require.NoError(t, err)
	require.NoError(t, mapping.Assign(canonicalID))
	return mapping
}

func TestResolverResolve(t *testing.T) {
	t.Run("mapped value resolves and observation is recorded", func(t *testing.T) {
		repo := new(MockRepository)
		canonicalID := uuid.New()
		mapping := mappedFixture(t, "Summer 26", canonicalID)

		repo.On("FindMapped", mock.Anything, "Summer 26").Return(mapping, nil)
		repo.On("Save", mock.Anything, mapping).Return(nil)

		resolver := NewResolver(repo, nil, nil)
		id, ok := resolver.Resolve(context.Background(), "Summer 26")

		assert.True(t, ok)
		assert.Equal(t, canonicalID, id)
		assert.Equal(t, 2, mapping.SeenCount)
		repo.AssertExpectations(t)
	})

	t.Run("miss records a signal and returns unresolved", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindMapped", mock.Anything, "Brand New Tag").Return(nil, aliasdomain.ErrMappingNotFound)
		repo.On("RecordSignal", mock.Anything, "Brand New Tag").Return(nil)

		resolver := NewResolver(repo, nil, nil)
		id, ok := resolver.Resolve(context.Background(), "Brand New Tag")

		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, id)
		repo.AssertExpectations(t)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindMapped", mock.Anything, "summer 26").Return(nil, aliasdomain.ErrMappingNotFound)
		repo.On("RecordSignal", mock.Anything, "summer 26").Return(nil)

		resolver := NewResolver(repo, nil, nil)
		_, ok := resolver.Resolve(context.Background(), "summer 26")
		assert.False(t, ok, "differently cased value must not resolve")
		repo.AssertCalled(t, "FindMapped", mock.Anything, "summer 26")
	})

	t.Run("signal write failure still returns unresolved", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindMapped", mock.Anything, "Tag").Return(nil, aliasdomain.ErrMappingNotFound)
		repo.On("RecordSignal", mock.Anything, "Tag").Return(errors.New("db unavailable"))

		resolver := NewResolver(repo, nil, nil)
		_, ok := resolver.Resolve(context.Background(), "Tag")
		assert.False(t, ok)
	})

	t.Run("observation save failure does not change the result", func(t *testing.T) {
		repo := new(MockRepository)
		canonicalID := uuid.New()
		mapping := mappedFixture(t, "Summer 26", canonicalID)

		repo.On("FindMapped", mock.Anything, "Summer 26").Return(mapping, nil)
		repo.On("Save", mock.Anything, mapping).Return(errors.New("db unavailable"))

		resolver := NewResolver(repo, nil, nil)
		id, ok := resolver.Resolve(context.Background(), "Summer 26")
		assert.True(t, ok)
		assert.Equal(t, canonicalID, id)
	})

	t.Run("empty raw value never resolves", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := NewResolver(repo, nil, nil)

		_, ok := resolver.Resolve(context.Background(), "")
		assert.False(t, ok)
		repo.AssertNotCalled(t, "FindMapped", mock.Anything, mock.Anything)
	})

	t.Run("cache hit skips the lookup but still records the observation", func(t *testing.T) {
		repo := new(MockRepository)
		cache := newMemoryCache()
		canonicalID := uuid.New()
		cache.Set(context.Background(), "Summer 26", canonicalID)

		repo.On("RecordObservation", mock.Anything, "Summer 26").Return(nil)

		resolver := NewResolver(repo, cache, nil)
		id, ok := resolver.Resolve(context.Background(), "Summer 26")

		assert.True(t, ok)
		assert.Equal(t, canonicalID, id)
		repo.AssertNotCalled(t, "FindMapped", mock.Anything, mock.Anything)
		repo.AssertCalled(t, "RecordObservation", mock.Anything, "Summer 26")
	})

	t.Run("cache hit observation failure does not change the result", func(t *testing.T) {
		repo := new(MockRepository)
		cache := newMemoryCache()
		canonicalID := uuid.New()
		cache.Set(context.Background(), "Summer 26", canonicalID)

		repo.On("RecordObservation", mock.Anything, "Summer 26").Return(errors.New("db unavailable"))

		resolver := NewResolver(repo, cache, nil)
		id, ok := resolver.Resolve(context.Background(), "Summer 26")
		assert.True(t, ok)
		assert.Equal(t, canonicalID, id)
	})

	t.Run("cache is populated after a repository hit", func(t *testing.T) {
		repo := new(MockRepository)
		cache := newMemoryCache()
		canonicalID := uuid.New()
		mapping := mappedFixture(t, "Summer 26", canonicalID)

		repo.On("FindMapped", mock.Anything, "Summer 26").Return(mapping, nil)
		repo.On("Save", mock.Anything, mapping).Return(nil)

		resolver := NewResolver(repo, cache, nil)
		_, ok := resolver.Resolve(context.Background(), "Summer 26")
		require.True(t, ok)

		cached, ok := cache.Get(context.Background(), "Summer 26")
		assert.True(t, ok)
		assert.Equal(t, canonicalID, cached)
	})
}

package catalog

import (
	"context"

	"github.com/google/uuid"
)

// SKURepository defines the interface for persisting catalog SKUs
type SKURepository interface {
	// UpsertByCode creates or replaces a SKU keyed by its normalized code
	UpsertByCode(ctx context.Context, sku *SKU) error

	// FindByCode finds a SKU by its normalized code
	FindByCode(ctx context.Context, code string) (*SKU, error)

	// FindAll returns the full catalog
	FindAll(ctx context.Context) ([]SKU, error)

	// Count returns the number of SKUs in the catalog
	Count(ctx context.Context) (int64, error)
}

// CollectionRepository defines the interface for persisting collections
type CollectionRepository interface {
	// Save creates or updates a collection
	Save(ctx context.Context, collection *Collection) error

	// FindByID finds a collection by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)

	// FindByName finds a collection by its canonical name
	FindByName(ctx context.Context, name string) (*Collection, error)

	// FindAll returns all collections
	FindAll(ctx context.Context) ([]Collection, error)
}

package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CollectionType classifies how a collection is sold
type CollectionType string

const (
	// CollectionTypeATS is an available-to-sell collection (in stock)
	CollectionTypeATS CollectionType = "ats"
	// CollectionTypePreOrder is a pre-order collection (sold before stock lands)
	CollectionTypePreOrder CollectionType = "preorder"
)

// IsValid returns true if the collection type is known
func (t CollectionType) IsValid() bool {
	switch t {
	case CollectionTypeATS, CollectionTypePreOrder:
		return true
	default:
		return false
	}
}

// String returns the string representation of CollectionType
func (t CollectionType) String() string {
	return string(t)
}

// Collection is the canonical internal entity that raw source collection tags
// resolve to. Multiple differently-spelled source values may map to one
// collection via the alias table.
type Collection struct {
	// ID is the unique identifier of the collection
	ID uuid.UUID
	// Name is the canonical display name
	Name string
	// Type classifies the collection (ats or preorder)
	Type CollectionType
	// CreatedAt is when this collection was created
	CreatedAt time.Time
	// UpdatedAt is when this collection was last updated
	UpdatedAt time.Time
}

// NewCollection creates a new collection
func NewCollection(name string, collectionType CollectionType) (*Collection, error) {
	if name == "" {
		return nil, ErrCollectionEmptyName
	}
	if !collectionType.IsValid() {
		return nil, ErrCollectionInvalidType
	}

	now := time.Now()
	return &Collection{
		ID:        uuid.New(),
		Name:      name,
		Type:      collectionType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsPreOrder returns true if this collection is sold as pre-order
func (c *Collection) IsPreOrder() bool {
	return c.Type == CollectionTypePreOrder
}

package catalog

import "errors"

// Catalog domain errors
var (
	// ErrSKUEmptyCode indicates a SKU was created without an identifier
	ErrSKUEmptyCode = errors.New("catalog: SKU code cannot be empty")
	// ErrSKUNotFound indicates the requested SKU does not exist
	ErrSKUNotFound = errors.New("catalog: SKU not found")
	// ErrSKUInvalidUnits indicates a non-positive units-per-SKU multiplier
	ErrSKUInvalidUnits = errors.New("catalog: units per SKU must be positive")
	// ErrCollectionNotFound indicates the requested collection does not exist
	ErrCollectionNotFound = errors.New("catalog: collection not found")
	// ErrCollectionEmptyName indicates a collection was created without a name
	ErrCollectionEmptyName = errors.New("catalog: collection name cannot be empty")
	// ErrCollectionInvalidType indicates an unknown collection type
	ErrCollectionInvalidType = errors.New("catalog: invalid collection type")
)

package alias

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for persisting alias mappings
type Repository interface {
	// FindMapped finds the mapping for a raw value, restricted to MAPPED
	// status. The lookup is case-sensitive and exact. Returns
	// ErrMappingNotFound when no mapped row exists.
	FindMapped(ctx context.Context, rawValue string) (*Mapping, error)

	// RecordSignal inserts an unmapped signal row for the raw value, or
	// increments the observation count of the existing row. The upsert is
	// idempotent so concurrent transforms never create duplicate rows.
	RecordSignal(ctx context.Context, rawValue string) error

	// RecordObservation bumps the observation count and last-seen time of
	// an existing mapping without loading it. Used when the canonical ID
	// is already known, e.g. from a cache.
	RecordObservation(ctx context.Context, rawValue string) error

	// FindByID finds a mapping by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Mapping, error)

	// ListUnresolved returns all mappings awaiting resolution (unmapped and
	// deferred), most frequently observed first.
	ListUnresolved(ctx context.Context) ([]Mapping, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, mapping *Mapping) error
}

package alias

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alias domain errors
var (
	// ErrMappingNotFound indicates no mapping exists for a raw value or ID
	ErrMappingNotFound = errors.New("alias: mapping not found")
	// ErrMappingEmptyRawValue indicates an empty raw source value
	ErrMappingEmptyRawValue = errors.New("alias: raw value cannot be empty")
	// ErrMappingInvalidCanonicalID indicates a nil canonical target
	ErrMappingInvalidCanonicalID = errors.New("alias: canonical ID cannot be nil")
	// ErrMappingAlreadyAssigned indicates the mapping already has a canonical target
	ErrMappingAlreadyAssigned = errors.New("alias: mapping already assigned")
)

// ---------------------------------------------------------------------------
// Mapping Entity
// ---------------------------------------------------------------------------

// Status is the resolution state of an alias mapping
type Status string

const (
	// StatusMapped means the raw value resolves to a canonical entity
	StatusMapped Status = "MAPPED"
	// StatusUnmapped means the raw value has been observed but not yet resolved
	StatusUnmapped Status = "UNMAPPED"
	// StatusDeferred means an administrator explicitly postponed resolution
	StatusDeferred Status = "DEFERRED"
)

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusMapped, StatusUnmapped, StatusDeferred:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Mapping pairs a raw source-provided categorical value with a canonical
// internal entity. A mapping starts life as an unmapped "signal" the first
// time a raw value is seen; an administrator later assigns a canonical target
// or defers the decision. At most one mapping exists per raw value, and
// lookups are case-sensitive on the raw value.
type Mapping struct {
	// ID is the unique identifier of this mapping
	ID uuid.UUID
	// RawValue is the source value exactly as received (case preserved)
	RawValue string
	// CanonicalID is the resolved internal entity, nil until assigned
	CanonicalID *uuid.UUID
	// Status is the resolution state
	Status Status
	// SeenCount is how many times the raw value has been observed
	SeenCount int
	// Note is an optional administrator note (set when deferring)
	Note string
	// FirstSeenAt is when the raw value was first observed
	FirstSeenAt time.Time
	// LastSeenAt is when the raw value was last observed
	LastSeenAt time.Time
	// CreatedAt is when this mapping was created
	CreatedAt time.Time
	// UpdatedAt is when this mapping was last updated
	UpdatedAt time.Time
}

// NewSignal creates an unmapped mapping for a raw value seen for the first
// time. The raw value's case is preserved.
func NewSignal(rawValue string) (*Mapping, error) {
	if strings.TrimSpace(rawValue) == "" {
		return nil, ErrMappingEmptyRawValue
	}

	now := time.Now()
	return &Mapping{
		ID:          uuid.New(),
		RawValue:    rawValue,
		Status:      StatusUnmapped,
		SeenCount:   1,
		FirstSeenAt: now,
		LastSeenAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Observe records another occurrence of the raw value
func (m *Mapping) Observe() {
	now := time.Now()
	m.SeenCount++
	m.LastSeenAt = now
	m.UpdatedAt = now
}

// Assign resolves the mapping to a canonical entity. Re-assigning an already
// mapped value is rejected; the existing mapping must be cleared first so a
// raw value never carries two active targets.
func (m *Mapping) Assign(canonicalID uuid.UUID) error {
	if canonicalID == uuid.Nil {
		return ErrMappingInvalidCanonicalID
	}
	if m.Status == StatusMapped {
		return ErrMappingAlreadyAssigned
	}
	m.CanonicalID = &canonicalID
	m.Status = StatusMapped
	m.Note = ""
	m.UpdatedAt = time.Now()
	return nil
}

// Defer postpones resolution with an optional administrator note
func (m *Mapping) Defer(note string) error {
	if m.Status == StatusMapped {
		return ErrMappingAlreadyAssigned
	}
	m.Status = StatusDeferred
	m.Note = note
	m.UpdatedAt = time.Now()
	return nil
}

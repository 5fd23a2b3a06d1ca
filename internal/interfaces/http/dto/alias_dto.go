package dto

import (
	"time"

	"github.com/wholesale/backend/internal/domain/alias"
)

// AliasSignalResponse represents an unresolved alias signal in API responses
// @Description A raw collection value awaiting administrator resolution
type AliasSignalResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RawValue    string  `json:"raw_value" example:"Fall 26"`
	CanonicalID *string `json:"canonical_id,omitempty"`
	Status      string  `json:"status" example:"UNMAPPED"`
	SeenCount   int     `json:"seen_count" example:"42"`
	Note        string  `json:"note,omitempty"`
	FirstSeenAt string  `json:"first_seen_at" example:"2026-01-20T09:15:00Z"`
	LastSeenAt  string  `json:"last_seen_at" example:"2026-01-23T12:00:00Z"`
}

// AliasAssignRequest is the request body for assigning a canonical target
type AliasAssignRequest struct {
	CanonicalID string `json:"canonical_id" binding:"required,uuid"`
}

// AliasDeferRequest is the request body for deferring a signal
type AliasDeferRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// NewAliasSignalResponse converts a mapping to its API representation
func NewAliasSignalResponse(mapping *alias.Mapping) AliasSignalResponse {
	resp := AliasSignalResponse{
		ID:          mapping.ID.String(),
		RawValue:    mapping.RawValue,
		Status:      string(mapping.Status),
		SeenCount:   mapping.SeenCount,
		Note:        mapping.Note,
		FirstSeenAt: mapping.FirstSeenAt.UTC().Format(time.RFC3339),
		LastSeenAt:  mapping.LastSeenAt.UTC().Format(time.RFC3339),
	}
	if mapping.CanonicalID != nil {
		canonical := mapping.CanonicalID.String()
		resp.CanonicalID = &canonical
	}
	return resp
}

// NewAliasSignalListResponse converts a slice of mappings
func NewAliasSignalListResponse(mappings []alias.Mapping) []AliasSignalResponse {
	out := make([]AliasSignalResponse, 0, len(mappings))
	for i := range mappings {
		out = append(out, NewAliasSignalResponse(&mappings[i]))
	}
	return out
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wholesale/backend/internal/domain/alias"
)

// AliasMappingModel is the persistence model for the alias Mapping entity.
// The raw value is unique so the signal upsert has a conflict target.
type AliasMappingModel struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key"`
	RawValue    string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	CanonicalID *uuid.UUID   `gorm:"type:uuid;index"`
	Status      alias.Status `gorm:"type:varchar(20);not null;default:'UNMAPPED';index"`
	SeenCount   int          `gorm:"not null;default:1"`
	Note        string       `gorm:"type:text"`
	FirstSeenAt time.Time    `gorm:"not null"`
	LastSeenAt  time.Time    `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AliasMappingModel) TableName() string {
	return "alias_mappings"
}

// ToDomain converts the persistence model to a domain Mapping entity.
func (m *AliasMappingModel) ToDomain() *alias.Mapping {
	return &alias.Mapping{
		ID:          m.ID,
		RawValue:    m.RawValue,
		CanonicalID: m.CanonicalID,
		Status:      m.Status,
		SeenCount:   m.SeenCount,
		Note:        m.Note,
		FirstSeenAt: m.FirstSeenAt,
		LastSeenAt:  m.LastSeenAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Mapping entity.
func (m *AliasMappingModel) FromDomain(mapping *alias.Mapping) {
	m.ID = mapping.ID
	m.RawValue = mapping.RawValue
	m.CanonicalID = mapping.CanonicalID
	m.Status = mapping.Status
	m.SeenCount = mapping.SeenCount
	m.Note = mapping.Note
	m.FirstSeenAt = mapping.FirstSeenAt
	m.LastSeenAt = mapping.LastSeenAt
	m.CreatedAt = mapping.CreatedAt
	m.UpdatedAt = mapping.UpdatedAt
}

// AliasMappingModelFromDomain creates a new persistence model from a domain Mapping entity.
func AliasMappingModelFromDomain(mapping *alias.Mapping) *AliasMappingModel {
	m := &AliasMappingModel{}
	m.FromDomain(mapping)
	return m
}

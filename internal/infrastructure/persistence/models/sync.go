package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
)

// SyncRunModel is the persistence model for the sync Run entity.
type SyncRunModel struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key"`
	Trigger         syncdomain.Trigger `gorm:"type:varchar(20);not null"`
	Status          syncdomain.Status  `gorm:"type:varchar(20);not null;index"`
	StartedAt       time.Time          `gorm:"not null;index"`
	CompletedAt     *time.Time
	FetchedCount    int       `gorm:"not null;default:0"`
	WrittenCount    int       `gorm:"not null;default:0"`
	SkippedCount    int       `gorm:"not null;default:0"`
	FailedCount     int       `gorm:"not null;default:0"`
	CurrentStep     string    `gorm:"type:varchar(50)"`
	ProgressPercent int       `gorm:"not null;default:0"`
	ErrorMessage    string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain Run entity.
func (m *SyncRunModel) ToDomain() *syncdomain.Run {
	return &syncdomain.Run{
		ID:              m.ID,
		Trigger:         m.Trigger,
		Status:          m.Status,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		FetchedCount:    m.FetchedCount,
		WrittenCount:    m.WrittenCount,
		SkippedCount:    m.SkippedCount,
		FailedCount:     m.FailedCount,
		CurrentStep:     m.CurrentStep,
		ProgressPercent: m.ProgressPercent,
		ErrorMessage:    m.ErrorMessage,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Run entity.
func (m *SyncRunModel) FromDomain(run *syncdomain.Run) {
	m.ID = run.ID
	m.Trigger = run.Trigger
	m.Status = run.Status
	m.StartedAt = run.StartedAt
	m.CompletedAt = run.CompletedAt
	m.FetchedCount = run.FetchedCount
	m.WrittenCount = run.WrittenCount
	m.SkippedCount = run.SkippedCount
	m.FailedCount = run.FailedCount
	m.CurrentStep = run.CurrentStep
	m.ProgressPercent = run.ProgressPercent
	m.ErrorMessage = run.ErrorMessage
	m.CreatedAt = run.CreatedAt
	m.UpdatedAt = run.UpdatedAt
}

// SyncRunModelFromDomain creates a new persistence model from a domain Run entity.
func SyncRunModelFromDomain(run *syncdomain.Run) *SyncRunModel {
	m := &SyncRunModel{}
	m.FromDomain(run)
	return m
}

// RawCatalogRecordModel is the persistence model for the staged RawRecord.
// Metafields are kept as JSONB so new source fields land without migrations.
type RawCatalogRecordModel struct {
	SourceID        string `gorm:"type:varchar(255);primary_key"`
	SourceNumericID int64  `gorm:"not null;index"`
	SourceParentID  string `gorm:"type:varchar(255);index"`
	Code            string `gorm:"type:varchar(100);index"`
	ParentTitle     string `gorm:"type:varchar(500)"`
	ParentStatus    string `gorm:"type:varchar(50)"`
	ParentType      string `gorm:"type:varchar(100)"`
	Size            string `gorm:"type:varchar(100)"`
	Price           string `gorm:"type:varchar(50)"`
	Quantity        int    `gorm:"not null;default:0"`
	Incoming        int    `gorm:"not null;default:0"`
	Committed       int    `gorm:"not null;default:0"`
	ImageURL        string `gorm:"type:text"`
	WeightGrams     float64
	MetafieldsJSON  string    `gorm:"type:jsonb;column:metafields"`
	ExtractedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RawCatalogRecordModel) TableName() string {
	return "catalog_staging_records"
}

// ToDomain converts the persistence model to a domain RawRecord.
func (m *RawCatalogRecordModel) ToDomain() *syncdomain.RawRecord {
	record := &syncdomain.RawRecord{
		SourceID:        m.SourceID,
		SourceNumericID: m.SourceNumericID,
		SourceParentID:  m.SourceParentID,
		Code:            m.Code,
		ParentTitle:     m.ParentTitle,
		ParentStatus:    m.ParentStatus,
		ParentType:      m.ParentType,
		Size:            m.Size,
		Price:           m.Price,
		Quantity:        m.Quantity,
		Incoming:        m.Incoming,
		Committed:       m.Committed,
		ImageURL:        m.ImageURL,
		WeightGrams:     m.WeightGrams,
		Metafields:      make(map[string]string),
		ExtractedAt:     m.ExtractedAt,
	}

	if m.MetafieldsJSON != "" {
		var metafields map[string]string
		if err := json.Unmarshal([]byte(m.MetafieldsJSON), &metafields); err == nil {
			record.Metafields = metafields
		}
	}

	return record
}

// FromDomain populates the persistence model from a domain RawRecord.
func (m *RawCatalogRecordModel) FromDomain(record *syncdomain.RawRecord) {
	m.SourceID = record.SourceID
	m.SourceNumericID = record.SourceNumericID
	m.SourceParentID = record.SourceParentID
	m.Code = record.Code
	m.ParentTitle = record.ParentTitle
	m.ParentStatus = record.ParentStatus
	m.ParentType = record.ParentType
	m.Size = record.Size
	m.Price = record.Price
	m.Quantity = record.Quantity
	m.Incoming = record.Incoming
	m.Committed = record.Committed
	m.ImageURL = record.ImageURL
	m.WeightGrams = record.WeightGrams
	m.ExtractedAt = record.ExtractedAt

	if len(record.Metafields) > 0 {
		if jsonBytes, err := json.Marshal(record.Metafields); err == nil {
			m.MetafieldsJSON = string(jsonBytes)
		}
	} else {
		m.MetafieldsJSON = "{}"
	}
}

// RawCatalogRecordModelFromDomain creates a new persistence model from a domain RawRecord.
func RawCatalogRecordModelFromDomain(record *syncdomain.RawRecord) *RawCatalogRecordModel {
	m := &RawCatalogRecordModel{}
	m.FromDomain(record)
	return m
}

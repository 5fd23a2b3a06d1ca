package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wholesale/backend/internal/domain/alias"
	"github.com/wholesale/backend/internal/infrastructure/persistence/models"
)

// GormAliasMappingRepository implements the alias Repository using GORM
type GormAliasMappingRepository struct {
	db *gorm.DB
}

// NewGormAliasMappingRepository creates a new GormAliasMappingRepository
func NewGormAliasMappingRepository(db *gorm.DB) *GormAliasMappingRepository {
	return &GormAliasMappingRepository{db: db}
}

// FindMapped finds the mapping for a raw value restricted to MAPPED status.
// The raw_value comparison is case-sensitive by column collation.
func (r *GormAliasMappingRepository) FindMapped(ctx context.Context, rawValue string) (*alias.Mapping, error) {
	var model models.AliasMappingModel
	if err := r.db.WithContext(ctx).
		Where("raw_value = ? AND status = ?", rawValue, alias.StatusMapped).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, alias.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// RecordSignal inserts an unmapped signal row for the raw value or bumps the
// observation count of the existing row. The conflict target is the unique
// raw_value index, so concurrent transforms never create duplicate rows.
func (r *GormAliasMappingRepository) RecordSignal(ctx context.Context, rawValue string) error {
	signal, err := alias.NewSignal(rawValue)
	if err != nil {
		return err
	}

	model := models.AliasMappingModelFromDomain(signal)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "raw_value"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"seen_count":   gorm.Expr("alias_mappings.seen_count + 1"),
				"last_seen_at": signal.LastSeenAt,
				"updated_at":   signal.UpdatedAt,
			}),
		}).
		Create(model).Error
}

// RecordObservation bumps the observation bookkeeping of an existing mapping
// with a single UPDATE, no row load. A raw value with no row is a no-op.
func (r *GormAliasMappingRepository) RecordObservation(ctx context.Context, rawValue string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.AliasMappingModel{}).
		Where("raw_value = ?", rawValue).
		Updates(map[string]interface{}{
			"seen_count":   gorm.Expr("seen_count + 1"),
			"last_seen_at": now,
			"updated_at":   now,
		}).Error
}

// FindByID finds a mapping by its ID
func (r *GormAliasMappingRepository) FindByID(ctx context.Context, id uuid.UUID) (*alias.Mapping, error) {
	var model models.AliasMappingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, alias.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListUnresolved returns all mappings awaiting resolution, most seen first
func (r *GormAliasMappingRepository) ListUnresolved(ctx context.Context) ([]alias.Mapping, error) {
	var mappingModels []models.AliasMappingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []alias.Status{alias.StatusUnmapped, alias.StatusDeferred}).
		Order("seen_count DESC, raw_value ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}

	mappings := make([]alias.Mapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// Save creates or updates a mapping
func (r *GormAliasMappingRepository) Save(ctx context.Context, mapping *alias.Mapping) error {
	model := models.AliasMappingModelFromDomain(mapping)
	return r.db.WithContext(ctx).Save(model).Error
}

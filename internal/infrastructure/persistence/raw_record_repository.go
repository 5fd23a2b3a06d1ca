package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
	"github.com/wholesale/backend/internal/infrastructure/persistence/models"
)

// GormRawRecordRepository implements RawRecordRepository using GORM
type GormRawRecordRepository struct {
	db *gorm.DB
}

// NewGormRawRecordRepository creates a new GormRawRecordRepository
func NewGormRawRecordRepository(db *gorm.DB) *GormRawRecordRepository {
	return &GormRawRecordRepository{db: db}
}

// Upsert creates or replaces a staged record keyed by its source ID, so
// re-extraction never duplicates or partially writes a row.
func (r *GormRawRecordRepository) Upsert(ctx context.Context, record *syncdomain.RawRecord) error {
	model := models.RawCatalogRecordModelFromDomain(record)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"source_numeric_id",
				"source_parent_id",
				"code",
				"parent_title",
				"parent_status",
				"parent_type",
				"size",
				"price",
				"quantity",
				"incoming",
				"committed",
				"image_url",
				"weight_grams",
				"metafields",
				"extracted_at",
			}),
		}).
		Create(model).Error
}

// FindAll returns all staged records
func (r *GormRawRecordRepository) FindAll(ctx context.Context) ([]syncdomain.RawRecord, error) {
	var recordModels []models.RawCatalogRecordModel
	if err := r.db.WithContext(ctx).Order("source_numeric_id ASC").Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]syncdomain.RawRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Count returns the number of staged records
func (r *GormRawRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RawCatalogRecordModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAll clears the staging store
func (r *GormRawRecordRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.RawCatalogRecordModel{}).Error
}

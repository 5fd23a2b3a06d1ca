package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wholesale/backend/internal/domain/catalog"
	"github.com/wholesale/backend/internal/infrastructure/persistence/models"
)

// GormSKURepository implements SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// UpsertByCode creates or replaces a SKU keyed by its normalized code
func (r *GormSKURepository) UpsertByCode(ctx context.Context, sku *catalog.SKU) error {
	model := models.SKUModelFromDomain(sku)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"description",
				"quantity",
				"on_route",
				"size",
				"color",
				"fabric",
				"collection_id",
				"price_cad",
				"price_usd",
				"retail_price_cad",
				"retail_price_usd",
				"unit_price_cad",
				"unit_price_usd",
				"units_per_sku",
				"is_pre_order",
				"image_url",
				"weight_grams",
				"updated_at",
			}),
		}).
		Create(model).Error
}

// FindByCode finds a SKU by its normalized code
func (r *GormSKURepository) FindByCode(ctx context.Context, code string) (*catalog.SKU, error) {
	var model models.SKUModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", catalog.NormalizeCode(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrSKUNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns the full catalog ordered by code
func (r *GormSKURepository) FindAll(ctx context.Context) ([]catalog.SKU, error) {
	var skuModels []models.SKUModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&skuModels).Error; err != nil {
		return nil, err
	}

	skus := make([]catalog.SKU, len(skuModels))
	for i, model := range skuModels {
		skus[i] = *model.ToDomain()
	}
	return skus, nil
}

// Count returns the number of SKUs in the catalog
func (r *GormSKURepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SKUModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

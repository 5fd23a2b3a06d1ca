package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wholesale/backend/internal/domain/catalog"
	"github.com/wholesale/backend/internal/infrastructure/persistence/models"
)

// GormCollectionRepository implements CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// Save creates or updates a collection
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	model := models.CollectionModelFromDomain(collection)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "type", "updated_at"}),
		}).
		Create(model).Error
}

// FindByID finds a collection by its ID
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCollectionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a collection by its canonical name
func (r *GormCollectionRepository) FindByName(ctx context.Context, name string) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCollectionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all collections ordered by name
func (r *GormCollectionRepository) FindAll(ctx context.Context) ([]catalog.Collection, error) {
	var collectionModels []models.CollectionModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&collectionModels).Error; err != nil {
		return nil, err
	}

	collections := make([]catalog.Collection, len(collectionModels))
	for i, model := range collectionModels {
		collections[i] = *model.ToDomain()
	}
	return collections, nil
}

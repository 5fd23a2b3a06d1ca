package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncdomain "github.com/wholesale/backend/internal/domain/sync"
	"github.com/wholesale/backend/internal/infrastructure/persistence/models"
)

// GormSyncRunRepository implements RunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save creates or updates a run
func (r *GormSyncRunRepository) Save(ctx context.Context, run *syncdomain.Run) error {
	model := models.SyncRunModelFromDomain(run)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*syncdomain.Run, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncdomain.ErrRunNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds the run currently in the started status
func (r *GormSyncRunRepository) FindActive(ctx context.Context) (*syncdomain.Run, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", syncdomain.StatusStarted).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncdomain.ErrRunNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatest finds the most recently started run
func (r *GormSyncRunRepository) FindLatest(ctx context.Context) (*syncdomain.Run, error) {
	var model models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncdomain.ErrRunNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListRecent returns the most recent runs, newest first
func (r *GormSyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncdomain.Run, error) {
	var runModels []models.SyncRunModel
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runModels).Error; err != nil {
		return nil, err
	}

	runs := make([]syncdomain.Run, len(runModels))
	for i, model := range runModels {
		runs[i] = *model.ToDomain()
	}
	return runs, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
)

// RunRepository persists pipeline run history.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a RunRepository.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordStart inserts a new run record.
func (r *RunRepository) RecordStart(ctx context.Context, run *domain.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// RecordFinish updates a run record with its outcome.
func (r *RunRepository) RecordFinish(ctx context.Context, run *domain.PipelineRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// ListRecent returns the most recent runs, newest first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []domain.PipelineRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// CountByStatus counts runs with the given status.
func (r *RunRepository) CountByStatus(ctx context.Context, status domain.RunStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.PipelineRun{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

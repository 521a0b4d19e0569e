package repository

import (
	"context"
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrJobRecordNotFound = errors.New("automation job not found")

type JobRepository interface {
	Create(ctx context.Context, job *model.AutomationJob) error
	Update(ctx context.Context, job *model.AutomationJob) error
	FindByID(ctx context.Context, id string) (*model.AutomationJob, error)
	FindRecent(ctx context.Context, limit int) ([]model.AutomationJob, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.AutomationJob) error {
	logger.Debug("Creating automation job in database", map[string]interface{}{
		"job_id": job.ID,
		"kind":   job.Kind,
	})

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		logger.Error("Failed to create automation job in database", err, map[string]interface{}{
			"job_id": job.ID,
			"kind":   job.Kind,
		})
		return err
	}
	return nil
}

func (r *jobRepository) Update(ctx context.Context, job *model.AutomationJob) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		logger.Error("Failed to update automation job in database", err, map[string]interface{}{
			"job_id": job.ID,
			"status": job.Status,
		})
		return err
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*model.AutomationJob, error) {
	var job model.AutomationJob
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobRecordNotFound
	}
	if err != nil {
		logger.Error("Failed to find automation job in database", err, map[string]interface{}{
			"job_id": id,
		})
		return nil, err
	}
	return &job, nil
}

// FindRecent returns the newest jobs first.
func (r *jobRepository) FindRecent(ctx context.Context, limit int) ([]model.AutomationJob, error) {
	var jobs []model.AutomationJob
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error
	if err != nil {
		logger.Error("Failed to list automation jobs in database", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return jobs, nil
}

package db

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []interface{} {
	return []interface{}{
		&model.KVEntry{},
		&model.AutomationJob{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := failInterruptedJobs(conn); err != nil {
		logger.Error("Failed to close out interrupted jobs during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// failInterruptedJobs marks jobs left pending or running by a previous process as failed,
// since nothing will ever finish them.
func failInterruptedJobs(conn *gorm.DB) error {
	result := conn.Model(&model.AutomationJob{}).
		Where("status IN ?", []model.JobStatus{model.JobStatusPending, model.JobStatusRunning}).
		Updates(map[string]interface{}{
			"status":  model.JobStatusFailure,
			"message": "interrupted by server restart",
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.Warn("Marked interrupted automation jobs as failed", map[string]interface{}{
			"count": result.RowsAffected,
		})
	}
	return nil
}

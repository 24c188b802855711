package jobs

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
)

// StatusCleanupJob periodically deletes expired communication statuses so
// the visible-status feed and the engagement scorer never see stale rows.
type StatusCleanupJob struct {
	db     *gorm.DB
	logger *zap.Logger
	ticker *time.Ticker
	done   chan bool
}

func NewStatusCleanupJob(db *gorm.DB, interval time.Duration, logger *zap.Logger) *StatusCleanupJob {
	return &StatusCleanupJob{
		db:     db,
		logger: logger,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *StatusCleanupJob) Start() {
	j.logger.Info("status cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				j.logger.Info("status cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *StatusCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *StatusCleanupJob) cleanup() {
	result := j.db.
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.CommunicationStatus{})

	if result.Error != nil {
		j.logger.Error("status cleanup failed", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		j.logger.Info("expired statuses removed", zap.Int64("count", result.RowsAffected))
	}
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/services"
	"orgsnap-api/utils"
)

type StatusController struct {
	db              *gorm.DB
	networkService  *services.NetworkService
	activityService *services.ActivityService
	logger          *zap.Logger
}

func NewStatusController(db *gorm.DB, networkService *services.NetworkService, activityService *services.ActivityService, logger *zap.Logger) *StatusController {
	return &StatusController{
		db:              db,
		networkService:  networkService,
		activityService: activityService,
		logger:          logger,
	}
}

type UpdateStatusRequest struct {
	StatusType models.StatusType `json:"status_type" binding:"required"`
	Message    *string           `json:"message"`
	ExpiresIn  *int              `json:"expires_in"` // hours
}

// UpdateStatus upserts the caller's single communication status row.
func (sc *StatusController) UpdateStatus(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidStatusType(req.StatusType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status type"})
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn != nil && *req.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(*req.ExpiresIn) * time.Hour)
		expiresAt = &t
	}

	var status models.CommunicationStatus
	err := sc.db.Where("user_id = ?", userID).First(&status).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = models.CommunicationStatus{
			ID:         uuid.New().String(),
			UserID:     userID,
			StatusType: req.StatusType,
			Message:    req.Message,
			ExpiresAt:  expiresAt,
		}
		if err := sc.db.Create(&status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set status"})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set status"})
		return
	default:
		if err := sc.db.Model(&status).Updates(map[string]interface{}{
			"status_type": req.StatusType,
			"message":     req.Message,
			"expires_at":  expiresAt,
			"updated_at":  time.Now(),
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
			return
		}
	}

	if err := sc.activityService.RecordStatusChanged(userID, req.StatusType); err != nil {
		sc.logger.Warn("failed to record status change activity",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// ClearStatus removes the caller's status.
func (sc *StatusController) ClearStatus(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := sc.db.Where("user_id = ?", userID).Delete(&models.CommunicationStatus{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status cleared"})
}

// GetMyStatus returns the caller's current unexpired status, if any.
func (sc *StatusController) GetMyStatus(c *gin.Context) {
	userID := c.GetString("user_id")

	var status models.CommunicationStatus
	err := sc.db.
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
		First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"status": nil})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// GetVisibleStatuses returns the unexpired statuses of everyone within two
// hops of the caller, newest first.
func (sc *StatusController) GetVisibleStatuses(c *gin.Context) {
	userID := c.GetString("user_id")

	visibleIDs, err := sc.networkService.VisibleUserIDs(userID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	var statuses []models.CommunicationStatus
	if err := sc.db.Preload("User").
		Where("user_id IN ?", visibleIDs).
		Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
		Order("updated_at DESC").
		Find(&statuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statuses"})
		return
	}

	feed := make([]models.CommunicationStatusWithUser, 0, len(statuses))
	for _, status := range statuses {
		user := status.User
		status.User = models.User{}
		feed = append(feed, models.CommunicationStatusWithUser{
			CommunicationStatus: status,
			User:                user.Summary(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"statuses": feed})
}

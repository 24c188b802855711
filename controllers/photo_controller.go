package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/services"
)

type PhotoController struct {
	db              *gorm.DB
	friendMaker     *services.FriendMakerService
	activityService *services.ActivityService
	logger          *zap.Logger
}

func NewPhotoController(db *gorm.DB, friendMaker *services.FriendMakerService, activityService *services.ActivityService, logger *zap.Logger) *PhotoController {
	return &PhotoController{
		db:              db,
		friendMaker:     friendMaker,
		activityService: activityService,
		logger:          logger,
	}
}

type CreatePhotoRequest struct {
	PhotoURL      string   `json:"photo_url" binding:"required"`
	PhotoPath     string   `json:"photo_path" binding:"required"`
	Description   *string  `json:"description"`
	TaggedUserIDs []string `json:"tagged_user_ids"`
}

// CreatePhoto registers a photo already stored in the external blob store
// and runs the co-tagging flow: everyone in the photo (uploader included)
// becomes friends with everyone else.
func (pc *PhotoController) CreatePhoto(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.TaggedUserIDs) > 0 {
		var count int64
		if err := pc.db.Model(&models.User{}).Where("id IN ?", req.TaggedUserIDs).Count(&count).Error; err != nil || count != int64(countUnique(req.TaggedUserIDs)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tagged user"})
			return
		}
	}

	photo := models.Photo{
		ID:          uuid.New().String(),
		UploadedBy:  userID,
		PhotoURL:    req.PhotoURL,
		PhotoPath:   req.PhotoPath,
		Description: req.Description,
	}

	// Everyone appearing in the photo, uploader first.
	participants := append([]string{userID}, req.TaggedUserIDs...)

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(participants))
		for _, participantID := range participants {
			if _, ok := seen[participantID]; ok {
				continue
			}
			seen[participantID] = struct{}{}

			photoUser := models.PhotoUser{
				ID:      uuid.New().String(),
				PhotoID: photo.ID,
				UserID:  participantID,
			}
			if err := tx.Create(&photoUser).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	// Friendship creation commits per pair; a failed pair should not undo
	// the photo or the other pairs.
	if err := pc.friendMaker.EnsureAllPairsConnected(participants); err != nil {
		pc.logger.Warn("co-tagging left some pairs unconnected",
			zap.String("photo_id", photo.ID),
			zap.Error(err))
	}

	if err := pc.activityService.RecordPhotoUploaded(&photo, req.TaggedUserIDs); err != nil {
		pc.logger.Warn("failed to record photo upload activity",
			zap.String("photo_id", photo.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

// GetPhotos lists photos the caller uploaded or appears in.
func (pc *PhotoController) GetPhotos(c *gin.Context) {
	userID := c.GetString("user_id")

	var photos []models.Photo
	if err := pc.db.
		Preload("PhotoUsers").
		Where("uploaded_by = ? OR id IN (SELECT photo_id FROM photo_users WHERE user_id = ?)", userID, userID).
		Order("created_at DESC").
		Find(&photos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch photos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// DeletePhoto removes a photo record. Only the uploader may delete it.
func (pc *PhotoController) DeletePhoto(c *gin.Context) {
	userID := c.GetString("user_id")
	photoID := c.Param("id")

	var photo models.Photo
	if err := pc.db.First(&photo, "id = ?", photoID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	if photo.UploadedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the uploader can delete a photo"})
		return
	}

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.PhotoUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&photo).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}

func countUnique(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

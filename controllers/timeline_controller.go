package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
	"orgsnap-api/utils"
)

type TimelineController struct {
	db          *gorm.DB
	friendships *repositories.FriendshipRepository
}

func NewTimelineController(db *gorm.DB, friendships *repositories.FriendshipRepository) *TimelineController {
	return &TimelineController{db: db, friendships: friendships}
}

// GetTimeline returns the activities of the caller, their friends, and
// anything where the caller is the related user, newest first.
func (tc *TimelineController) GetTimeline(c *gin.Context) {
	userID := c.GetString("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	friendIDs, err := tc.friendships.FriendIDs(userID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	actorIDs := append([]string{userID}, friendIDs...)

	query := tc.db.Model(&models.Activity{}).
		Where("user_id IN ? OR related_user_id = ?", actorIDs, userID)

	var total int64
	query.Count(&total)

	var activities []models.Activity
	if err := query.
		Preload("User").
		Preload("RelatedUser").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timeline"})
		return
	}

	for i := range activities {
		activities[i].User.Password = ""
		if activities[i].RelatedUser != nil {
			activities[i].RelatedUser.Password = ""
		}
	}

	utils.SendPaginated(c, activities, page, limit, total)
}

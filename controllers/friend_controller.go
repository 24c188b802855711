package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
	"orgsnap-api/utils"
)

type FriendController struct {
	db          *gorm.DB
	friendships *repositories.FriendshipRepository
}

func NewFriendController(db *gorm.DB, friendships *repositories.FriendshipRepository) *FriendController {
	return &FriendController{db: db, friendships: friendships}
}

// GetFriends returns the caller's friendships with the counterpart profile
// attached.
func (fc *FriendController) GetFriends(c *gin.Context) {
	userID := c.GetString("user_id")

	friendships, err := fc.friendships.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	if len(friendships) == 0 {
		c.JSON(http.StatusOK, gin.H{"friends": []models.FriendshipWithUser{}})
		return
	}

	friendIDs := make([]string, len(friendships))
	for i, friendship := range friendships {
		friendIDs[i] = friendship.OtherUser(userID)
	}

	var users []models.User
	if err := fc.db.Where("id IN ?", friendIDs).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend details"})
		return
	}

	usersByID := make(map[string]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	friends := make([]models.FriendshipWithUser, 0, len(friendships))
	for _, friendship := range friendships {
		counterpart := usersByID[friendship.OtherUser(userID)]
		friends = append(friends, models.FriendshipWithUser{
			Friendship: friendship,
			Friend:     counterpart.Summary(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// RemoveFriend deletes a friendship by ID. Only a party of the edge may do
// this.
func (fc *FriendController) RemoveFriend(c *gin.Context) {
	userID := c.GetString("user_id")
	friendshipID := c.Param("id")

	if err := fc.friendships.Delete(friendshipID, userID); err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}

// GetFriendshipStatus reports whether the caller is friends with the target.
func (fc *FriendController) GetFriendshipStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("user_id")

	if userID == targetUserID {
		c.JSON(http.StatusOK, gin.H{"is_friend": false})
		return
	}

	isFriend, err := fc.friendships.Exists(userID, targetUserID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_friend": isFriend})
}

package services

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
)

// ActivityService writes the activity records that feed the timeline and
// the notifications that feed the bell. It is the "friend added" emission
// point for the friend-maker: the friendship insert always happens before
// the corresponding events are written.
type ActivityService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewActivityService(db *gorm.DB, logger *zap.Logger) *ActivityService {
	return &ActivityService{db: db, logger: logger}
}

// RecordFriendAdded writes one friend_added activity per direction plus a
// new_friend notification for both parties of a freshly created edge.
func (s *ActivityService) RecordFriendAdded(friendship *models.Friendship) error {
	metadata := models.ActivityMetadata{
		FriendAdded: &models.FriendAddedMetadata{FriendshipID: friendship.ID},
	}

	low, high := friendship.UserIDLow, friendship.UserIDHigh
	activities := []models.Activity{
		{
			ID:            uuid.New().String(),
			UserID:        low,
			Type:          models.ActivityFriendAdded,
			RelatedUserID: &high,
			Metadata:      metadata,
		},
		{
			ID:            uuid.New().String(),
			UserID:        high,
			Type:          models.ActivityFriendAdded,
			RelatedUserID: &low,
			Metadata:      metadata,
		},
	}

	if err := s.db.Create(&activities).Error; err != nil {
		return fmt.Errorf("failed to create friend added activities: %w", err)
	}

	notifications := []models.Notification{
		{
			ID:            uuid.New().String(),
			UserID:        low,
			Type:          models.NotificationTypeNewFriend,
			Title:         "You have a new friend",
			RelatedUserID: &high,
		},
		{
			ID:            uuid.New().String(),
			UserID:        high,
			Type:          models.NotificationTypeNewFriend,
			Title:         "You have a new friend",
			RelatedUserID: &low,
		},
	}

	if err := s.db.Create(&notifications).Error; err != nil {
		// The activity is the durable record; a failed notification is not
		// worth failing the whole operation over.
		s.logger.Warn("failed to create new friend notifications",
			zap.String("friendship_id", friendship.ID),
			zap.Error(err))
	}

	return nil
}

// RecordPhotoUploaded writes the uploader's photo_uploaded activity and
// notifies every tagged user other than the uploader.
func (s *ActivityService) RecordPhotoUploaded(photo *models.Photo, taggedUserIDs []string) error {
	activity := models.Activity{
		ID:             uuid.New().String(),
		UserID:         photo.UploadedBy,
		Type:           models.ActivityPhotoUploaded,
		RelatedPhotoID: &photo.ID,
		Metadata: models.ActivityMetadata{
			PhotoUploaded: &models.PhotoUploadedMetadata{
				PhotoURL:        photo.PhotoURL,
				TaggedUserCount: len(taggedUserIDs),
				TaggedUserIDs:   taggedUserIDs,
			},
		},
	}

	if err := s.db.Create(&activity).Error; err != nil {
		return fmt.Errorf("failed to create photo uploaded activity: %w", err)
	}

	var notifications []models.Notification
	for _, taggedID := range taggedUserIDs {
		if taggedID == photo.UploadedBy {
			continue
		}
		notifications = append(notifications, models.Notification{
			ID:             uuid.New().String(),
			UserID:         taggedID,
			Type:           models.NotificationTypePhotoTagged,
			Title:          "You were tagged in a photo",
			RelatedUserID:  &photo.UploadedBy,
			RelatedPhotoID: &photo.ID,
		})
	}

	if len(notifications) > 0 {
		if err := s.db.Create(&notifications).Error; err != nil {
			s.logger.Warn("failed to create photo tagged notifications",
				zap.String("photo_id", photo.ID),
				zap.Error(err))
		}
	}

	return nil
}

// RecordStatusChanged writes a status_changed activity.
func (s *ActivityService) RecordStatusChanged(userID string, statusType models.StatusType) error {
	activity := models.Activity{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   models.ActivityStatusChanged,
		Metadata: models.ActivityMetadata{
			StatusChanged: &models.StatusChangedMetadata{StatusType: statusType},
		},
	}
	return s.db.Create(&activity).Error
}

// RecordOrganizationEvent writes an organization_created, joined_organization
// or left_organization activity for the user.
func (s *ActivityService) RecordOrganizationEvent(userID string, activityType models.ActivityType, org *models.Organization) error {
	activity := models.Activity{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Type:                  activityType,
		RelatedOrganizationID: &org.ID,
		Metadata: models.ActivityMetadata{
			Organization: &models.OrganizationMetadata{OrganizationName: org.Name},
		},
	}
	return s.db.Create(&activity).Error
}

// NotifyJoinRequest alerts the organization's approved admins about a new
// pending membership.
func (s *ActivityService) NotifyJoinRequest(adminUserIDs []string, applicantID string, org *models.Organization) {
	var notifications []models.Notification
	message := fmt.Sprintf("A user applied to join %s", org.Name)
	for _, adminID := range adminUserIDs {
		notifications = append(notifications, models.Notification{
			ID:                    uuid.New().String(),
			UserID:                adminID,
			Type:                  models.NotificationTypeJoinRequest,
			Title:                 "New membership request",
			Message:               &message,
			RelatedUserID:         &applicantID,
			RelatedOrganizationID: &org.ID,
		})
	}

	if len(notifications) == 0 {
		return
	}
	if err := s.db.Create(&notifications).Error; err != nil {
		s.logger.Warn("failed to notify admins of join request",
			zap.String("organization_id", org.ID),
			zap.Error(err))
	}
}

// NotifyJoinDecision tells an applicant whether their membership was
// approved or rejected.
func (s *ActivityService) NotifyJoinDecision(userID string, org *models.Organization, approved bool) {
	notificationType := models.NotificationTypeJoinApproved
	title := fmt.Sprintf("Welcome to %s", org.Name)
	if !approved {
		notificationType = models.NotificationTypeJoinRejected
		title = fmt.Sprintf("Your request to join %s was declined", org.Name)
	}

	notification := models.Notification{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Type:                  notificationType,
		Title:                 title,
		RelatedOrganizationID: &org.ID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		s.logger.Warn("failed to notify join decision",
			zap.String("user_id", userID),
			zap.String("organization_id", org.ID),
			zap.Error(err))
	}
}

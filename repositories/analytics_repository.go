package repositories

import (
	"time"

	"gorm.io/gorm"

	"orgsnap-api/models"
)

// AnalyticsRepository loads the read-only inputs the engagement scorer
// consumes. It never writes.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ApprovedMembers returns the approved memberships of an organization with
// their user profiles loaded.
func (r *AnalyticsRepository) ApprovedMembers(organizationID string) ([]models.OrganizationMembership, error) {
	var members []models.OrganizationMembership
	if err := r.db.Preload("User").
		Where("organization_id = ? AND status = ?", organizationID, models.MembershipStatusApproved).
		Order("created_at").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ActivitiesSince returns activities of the given users created at or after
// the cutoff.
func (r *AnalyticsRepository) ActivitiesSince(userIDs []string, since time.Time) ([]models.Activity, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var activities []models.Activity
	if err := r.db.
		Where("user_id IN ? AND created_at >= ?", userIDs, since).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// PhotosUploadedBy returns photos uploaded by any of the given users.
func (r *AnalyticsRepository) PhotosUploadedBy(userIDs []string) ([]models.Photo, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var photos []models.Photo
	if err := r.db.
		Where("uploaded_by IN ?", userIDs).
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// PhotoTags returns the photo appearances of the given users.
func (r *AnalyticsRepository) PhotoTags(userIDs []string) ([]models.PhotoUser, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var tags []models.PhotoUser
	if err := r.db.
		Where("user_id IN ?", userIDs).
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CurrentStatuses returns the unexpired communication statuses of the given
// users at the given instant.
func (r *AnalyticsRepository) CurrentStatuses(userIDs []string, now time.Time) ([]models.CommunicationStatus, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var statuses []models.CommunicationStatus
	if err := r.db.
		Where("user_id IN ?", userIDs).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ActivityType string

const (
	ActivityFriendAdded         ActivityType = "friend_added"
	ActivityPhotoUploaded       ActivityType = "photo_uploaded"
	ActivityJoinedOrganization  ActivityType = "joined_organization"
	ActivityLeftOrganization    ActivityType = "left_organization"
	ActivityStatusChanged       ActivityType = "status_changed"
	ActivityOrganizationCreated ActivityType = "organization_created"
)

// FriendAddedMetadata is attached to friend_added activities.
type FriendAddedMetadata struct {
	FriendshipID string `json:"friendship_id"`
}

// PhotoUploadedMetadata is attached to photo_uploaded activities.
type PhotoUploadedMetadata struct {
	PhotoURL        string   `json:"photo_url"`
	TaggedUserCount int      `json:"tagged_user_count"`
	TaggedUserIDs   []string `json:"tagged_user_ids"`
}

// StatusChangedMetadata is attached to status_changed activities.
type StatusChangedMetadata struct {
	StatusType StatusType `json:"status_type"`
}

// OrganizationMetadata is attached to the organization activity kinds.
type OrganizationMetadata struct {
	OrganizationName string `json:"organization_name"`
}

// ActivityMetadata carries one payload matching the activity type. At most
// one field is non-nil; consumers pick the field for the type they handle
// instead of poking at an open map.
type ActivityMetadata struct {
	FriendAdded   *FriendAddedMetadata   `json:"friend_added,omitempty"`
	PhotoUploaded *PhotoUploadedMetadata `json:"photo_uploaded,omitempty"`
	StatusChanged *StatusChangedMetadata `json:"status_changed,omitempty"`
	Organization  *OrganizationMetadata  `json:"organization,omitempty"`
}

// Value implements driver.Valuer for database storage
func (m ActivityMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *ActivityMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = ActivityMetadata{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into ActivityMetadata", value)
	}
}

// GormDataType returns the data type for GORM
func (ActivityMetadata) GormDataType() string {
	return "json"
}

type Activity struct {
	ID                    string           `json:"id" gorm:"primaryKey;size:191"`
	UserID                string           `json:"user_id" gorm:"not null;size:191;index"`
	Type                  ActivityType     `json:"type" gorm:"not null;size:50"`
	RelatedUserID         *string          `json:"related_user_id" gorm:"size:191;index"`
	RelatedPhotoID        *string          `json:"related_photo_id" gorm:"size:191"`
	RelatedOrganizationID *string          `json:"related_organization_id" gorm:"size:191"`
	Metadata              ActivityMetadata `json:"metadata" gorm:"type:json"`
	CreatedAt             time.Time        `json:"created_at" gorm:"index"`

	User        User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RelatedUser *User `json:"related_user,omitempty" gorm:"foreignKey:RelatedUserID"`
}

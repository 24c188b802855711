package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeJoinRequest   NotificationType = "join_request"
	NotificationTypeJoinApproved  NotificationType = "join_approved"
	NotificationTypeJoinRejected  NotificationType = "join_rejected"
	NotificationTypePhotoTagged   NotificationType = "photo_tagged"
	NotificationTypeNewFriend     NotificationType = "new_friend"
	NotificationTypeMemberRemoved NotificationType = "member_removed"
	NotificationTypeRoleChanged   NotificationType = "role_changed"
)

type Notification struct {
	ID                    string           `json:"id" gorm:"primaryKey;size:191"`
	UserID                string           `json:"user_id" gorm:"not null;size:191;index"`
	Type                  NotificationType `json:"type" gorm:"not null;size:50"`
	Title                 string           `json:"title" gorm:"not null;size:255"`
	Message               *string          `json:"message"`
	RelatedUserID         *string          `json:"related_user_id" gorm:"size:191"`
	RelatedOrganizationID *string          `json:"related_organization_id" gorm:"size:191"`
	RelatedPhotoID        *string          `json:"related_photo_id" gorm:"size:191"`
	IsRead                bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt             time.Time        `json:"created_at" gorm:"index"`

	RelatedUser *User `json:"related_user,omitempty" gorm:"foreignKey:RelatedUserID"`
}

type PaginatedNotifications struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	Total         int64          `json:"total"`
	HasMore       bool           `json:"has_more"`
	UnreadCount   int64          `json:"unread_count"`
}

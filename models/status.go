package models

import (
	"time"
)

type StatusType string

const (
	StatusTypeOffice    StatusType = "office"
	StatusTypeSocial    StatusType = "social"
	StatusTypeAvailable StatusType = "available"
	StatusTypeBusy      StatusType = "busy"
)

// ValidStatusType reports whether t is one of the known status kinds.
func ValidStatusType(t StatusType) bool {
	switch t {
	case StatusTypeOffice, StatusTypeSocial, StatusTypeAvailable, StatusTypeBusy:
		return true
	}
	return false
}

// CommunicationStatus is a user's current ephemeral broadcast. One row per
// user; updates replace in place.
type CommunicationStatus struct {
	ID         string     `json:"id" gorm:"primaryKey;size:191"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;not null;size:191"`
	StatusType StatusType `json:"status_type" gorm:"not null;size:20"`
	Message    *string    `json:"message" gorm:"size:200"`
	ExpiresAt  *time.Time `json:"expires_at" gorm:"index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Expired reports whether the status has lapsed at the given instant.
// A nil ExpiresAt never expires.
func (s *CommunicationStatus) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// CommunicationStatusWithUser is the status feed item shape.
type CommunicationStatusWithUser struct {
	CommunicationStatus
	User UserSummary `json:"user"`
}

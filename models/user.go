package models

import (
	"time"
)

type User struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	Name          *string   `json:"name" gorm:"size:255"`
	AvatarURL     *string   `json:"avatar_url" gorm:"size:500"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password      string    `json:"-" gorm:"not null;size:255"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	UploadedPhotos []Photo    `json:"uploaded_photos,omitempty" gorm:"foreignKey:UploadedBy"`
	Activities     []Activity `json:"activities,omitempty" gorm:"foreignKey:UserID"`
}

// DisplayName returns the user's name, falling back to a placeholder for
// profiles that never set one.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "Unknown"
}

// UserSummary is the trimmed user shape embedded in computed responses.
type UserSummary struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

package models

import (
	"time"
)

// Photo records an upload that already happened against the external blob
// store; only the resulting URL/path and the tag set live here.
type Photo struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	UploadedBy  string    `json:"uploaded_by" gorm:"not null;size:191;index"`
	PhotoURL    string    `json:"photo_url" gorm:"not null;size:500"`
	PhotoPath   string    `json:"photo_path" gorm:"not null;size:500"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	Uploader   User        `json:"uploader" gorm:"foreignKey:UploadedBy"`
	PhotoUsers []PhotoUser `json:"photo_users,omitempty" gorm:"foreignKey:PhotoID"`
}

// PhotoUser marks a user as appearing in a photo (the uploader included).
type PhotoUser struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	PhotoID   string    `json:"photo_id" gorm:"not null;size:191;uniqueIndex:uk_photo_users,priority:1"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_photo_users,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

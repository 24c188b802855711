package models

import (
	"time"
)

type ApprovalMethod string

const (
	ApprovalMethodManual ApprovalMethod = "manual"
	ApprovalMethodAuto   ApprovalMethod = "auto"
	ApprovalMethodDomain ApprovalMethod = "domain"
)

type MembershipRole string

const (
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "pending"
	MembershipStatusApproved MembershipStatus = "approved"
	MembershipStatusRejected MembershipStatus = "rejected"
)

type Organization struct {
	ID              string          `json:"id" gorm:"primaryKey;size:191"`
	Name            string          `json:"name" gorm:"uniqueIndex;not null;size:200"`
	Description     *string         `json:"description"`
	ApprovalMethod  ApprovalMethod  `json:"approval_method" gorm:"size:20;default:'manual'"`
	ApprovalDomains StringSliceType `json:"approval_domains" gorm:"type:json"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Memberships []OrganizationMembership `json:"memberships,omitempty" gorm:"foreignKey:OrganizationID"`
}

// OrganizationMembership ties a user to at most one organization. The unique
// index on UserID is what enforces the single-membership rule.
type OrganizationMembership struct {
	ID             string           `json:"id" gorm:"primaryKey;size:191"`
	UserID         string           `json:"user_id" gorm:"uniqueIndex;not null;size:191"`
	OrganizationID string           `json:"organization_id" gorm:"not null;size:191;index:idx_memberships_org_status,priority:1"`
	Role           MembershipRole   `json:"role" gorm:"size:20;not null;default:'member'"`
	Status         MembershipStatus `json:"status" gorm:"size:20;not null;default:'pending';index:idx_memberships_org_status,priority:2"`
	JoinedAt       *time.Time       `json:"joined_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	User         User         `json:"user" gorm:"foreignKey:UserID"`
	Organization Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
}

// IsApprovedAdmin reports whether the membership grants admin rights.
func (m *OrganizationMembership) IsApprovedAdmin() bool {
	return m.Role == MembershipRoleAdmin && m.Status == MembershipStatusApproved
}

package models

import (
	"time"
)

// RetentionRisk is a categorical estimate of how likely a member is to
// disengage from their organization.
type RetentionRisk string

const (
	RetentionRiskLow    RetentionRisk = "low"
	RetentionRiskMedium RetentionRisk = "medium"
	RetentionRiskHigh   RetentionRisk = "high"
)

// Severity ranks risks for presentation order: high sorts before medium
// before low.
func (r RetentionRisk) Severity() int {
	switch r {
	case RetentionRiskHigh:
		return 0
	case RetentionRiskMedium:
		return 1
	default:
		return 2
	}
}

// MemberAnalytics is the per-member scoring result. Computed on demand,
// never persisted.
type MemberAnalytics struct {
	UserID             string        `json:"user_id"`
	User               UserSummary   `json:"user"`
	JoinedAt           *time.Time    `json:"joined_at"`
	CommunicationScore int           `json:"communication_score"`
	EngagementScore    float64       `json:"engagement_score"`
	RetentionRisk      RetentionRisk `json:"retention_risk"`
	RiskFactors        []string      `json:"risk_factors"`
	LastActiveAt       *time.Time    `json:"last_active_at"`
	ActivityCount      int           `json:"activity_count"`
	PhotoCount         int           `json:"photo_count"`
	FriendCount        int           `json:"friend_count"`
	CurrentStatus      *StatusType   `json:"current_status"`
}

// AnalyticsSummary aggregates member analytics for the overview cards.
type AnalyticsSummary struct {
	AvgCommunicationScore float64 `json:"avg_communication_score"`
	AvgEngagementScore    float64 `json:"avg_engagement_score"`
	HighRiskCount         int     `json:"high_risk_count"`
	MediumRiskCount       int     `json:"medium_risk_count"`
	ActiveInLast7Days     int     `json:"active_in_last_7_days"`
	ActiveRate            float64 `json:"active_rate"`
}

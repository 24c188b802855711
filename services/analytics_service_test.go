package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
)

func TestClassifyRetentionRisk(t *testing.T) {
	tests := []struct {
		name            string
		engagementScore float64
		riskFactors     int
		want            models.RetentionRisk
	}{
		{"very low engagement", 15, 0, models.RetentionRiskHigh},
		{"many factors despite engagement", 80, 3, models.RetentionRiskHigh},
		{"moderate engagement", 45, 0, models.RetentionRiskMedium},
		{"two factors despite engagement", 60, 2, models.RetentionRiskMedium},
		{"engaged", 50, 1, models.RetentionRiskLow},
		{"fully engaged", 100, 0, models.RetentionRiskLow},
		{"boundary twenty is medium", 20, 0, models.RetentionRiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyRetentionRisk(tt.engagementScore, tt.riskFactors))
		})
	}
}

func TestScoreMemberCapsContributions(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -10)

	member := models.OrganizationMembership{
		UserID:   "member-1",
		JoinedAt: &joined,
		User:     models.User{ID: "member-1"},
	}

	inputs := &analyticsInputs{}
	for i := 0; i < 30; i++ {
		inputs.activities = append(inputs.activities, models.Activity{
			ID:        uuid.New().String(),
			UserID:    "member-1",
			Type:      models.ActivityPhotoUploaded,
			CreatedAt: now.Add(-24 * time.Hour),
		})
	}
	for i := 0; i < 10; i++ {
		inputs.photos = append(inputs.photos, models.Photo{
			ID:         uuid.New().String(),
			UploadedBy: "member-1",
			CreatedAt:  now.Add(-24 * time.Hour),
		})
	}
	for i := 0; i < 20; i++ {
		inputs.tags = append(inputs.tags, models.PhotoUser{UserID: "member-1"})
	}
	for i := 0; i < 5; i++ {
		inputs.edges = append(inputs.edges, models.Friendship{
			UserIDLow:  "member-1",
			UserIDHigh: uuid.New().String(),
		})
	}
	inputs.statuses = append(inputs.statuses, models.CommunicationStatus{
		UserID:     "member-1",
		StatusType: models.StatusTypeOffice,
		UpdatedAt:  now.Add(-time.Hour),
	})

	result := scoreMember(member, inputs, now)

	// Every communication component is over its cap: 25 each.
	assert.Equal(t, 100, result.CommunicationScore)
	assert.Equal(t, 100.0, result.EngagementScore)
	assert.Equal(t, models.RetentionRiskLow, result.RetentionRisk)
	assert.Empty(t, result.RiskFactors)
	assert.Equal(t, 30, result.ActivityCount)
	assert.Equal(t, 10, result.PhotoCount)
	assert.Equal(t, 5, result.FriendCount)
	require.NotNil(t, result.CurrentStatus)
	assert.Equal(t, models.StatusTypeOffice, *result.CurrentStatus)
}

func TestScoreMemberDormant(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	joined := now.AddDate(0, 0, -120)

	member := models.OrganizationMembership{
		UserID:   "member-1",
		JoinedAt: &joined,
		User:     models.User{ID: "member-1"},
	}

	result := scoreMember(member, &analyticsInputs{}, now)

	assert.Equal(t, 0, result.CommunicationScore)
	assert.Equal(t, 0.0, result.EngagementScore)
	assert.Equal(t, models.RetentionRiskHigh, result.RetentionRisk)
	assert.ElementsMatch(t, []string{
		"No activity for over 30 days",
		"Few connections within organization",
		"No photos shared",
		"Communication status not set",
		"Low activity despite long membership",
	}, result.RiskFactors)
	require.NotNil(t, result.LastActiveAt)
	assert.Equal(t, joined, *result.LastActiveAt)
}

func TestScoreMemberWithoutAnySignal(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	member := models.OrganizationMembership{
		UserID: "member-1",
		User:   models.User{ID: "member-1"},
	}

	result := scoreMember(member, &analyticsInputs{}, now)

	assert.Equal(t, models.RetentionRiskHigh, result.RetentionRisk)
	assert.Nil(t, result.LastActiveAt)
	assert.Equal(t, 0.0, result.EngagementScore)
	assert.Len(t, result.RiskFactors, 4)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -2)
	stale := now.AddDate(0, 0, -10)

	members := []models.MemberAnalytics{
		{CommunicationScore: 80, EngagementScore: 90, RetentionRisk: models.RetentionRiskLow, LastActiveAt: &recent},
		{CommunicationScore: 40, EngagementScore: 30, RetentionRisk: models.RetentionRiskMedium, LastActiveAt: &stale},
		{CommunicationScore: 20, EngagementScore: 10, RetentionRisk: models.RetentionRiskHigh},
	}

	summary := summarize(members, now)

	assert.InDelta(t, 46.67, summary.AvgCommunicationScore, 0.01)
	assert.InDelta(t, 43.33, summary.AvgEngagementScore, 0.01)
	assert.Equal(t, 1, summary.HighRiskCount)
	assert.Equal(t, 1, summary.MediumRiskCount)
	assert.Equal(t, 1, summary.ActiveInLast7Days)
	assert.InDelta(t, 33.33, summary.ActiveRate, 0.01)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, models.AnalyticsSummary{}, summarize(nil, time.Now()))
}

func TestScoreOrganizationSortsBySeverity(t *testing.T) {
	db := newTestDB(t)

	service := NewAnalyticsService(
		repositories.NewAnalyticsRepository(db),
		repositories.NewFriendshipRepository(db),
		zap.NewNop(),
	)

	org := models.Organization{ID: uuid.New().String(), Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	createUser(t, db, "user-active", "Active")
	createUser(t, db, "user-dormant", "Dormant")

	now := time.Now()
	activeJoined := now.AddDate(0, 0, -10)
	dormantJoined := now.AddDate(0, 0, -120)
	memberships := []models.OrganizationMembership{
		{ID: uuid.New().String(), UserID: "user-active", OrganizationID: org.ID, Role: models.MembershipRoleMember, Status: models.MembershipStatusApproved, JoinedAt: &activeJoined},
		{ID: uuid.New().String(), UserID: "user-dormant", OrganizationID: org.ID, Role: models.MembershipRoleMember, Status: models.MembershipStatusApproved, JoinedAt: &dormantJoined},
	}
	require.NoError(t, db.Create(&memberships).Error)

	for i := 0; i < 5; i++ {
		activity := models.Activity{
			ID:        uuid.New().String(),
			UserID:    "user-active",
			Type:      models.ActivityPhotoUploaded,
			CreatedAt: now.Add(-24 * time.Hour),
		}
		require.NoError(t, db.Create(&activity).Error)
	}
	photo := models.Photo{
		ID:         uuid.New().String(),
		UploadedBy: "user-active",
		PhotoURL:   "https://photos.example.com/p1.jpg",
		PhotoPath:  "photos/p1.jpg",
	}
	require.NoError(t, db.Create(&photo).Error)
	status := models.CommunicationStatus{
		ID:         uuid.New().String(),
		UserID:     "user-active",
		StatusType: models.StatusTypeAvailable,
	}
	require.NoError(t, db.Create(&status).Error)

	results, err := service.ScoreOrganization(org.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// High severity sorts first.
	assert.Equal(t, "user-dormant", results[0].UserID)
	assert.Equal(t, models.RetentionRiskHigh, results[0].RetentionRisk)

	active := results[1]
	assert.Equal(t, "user-active", active.UserID)
	assert.Equal(t, 5, active.ActivityCount)
	assert.Equal(t, 1, active.PhotoCount)
	require.NotNil(t, active.CurrentStatus)
	assert.Equal(t, models.StatusTypeAvailable, *active.CurrentStatus)
	assert.Greater(t, active.RetentionRisk.Severity(), results[0].RetentionRisk.Severity())

	summary := service.Summarize(results)
	assert.Equal(t, 1, summary.HighRiskCount)
	assert.Equal(t, 1, summary.ActiveInLast7Days)
}

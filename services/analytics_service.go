package services

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
)

// AnalyticsService computes per-member engagement scores and retention risk
// for an organization. Only approved members are scored; all inputs are
// read-only.
type AnalyticsService struct {
	repo        *repositories.AnalyticsRepository
	friendships *repositories.FriendshipRepository
	logger      *zap.Logger
}

func NewAnalyticsService(repo *repositories.AnalyticsRepository, friendships *repositories.FriendshipRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, friendships: friendships, logger: logger}
}

// analyticsInputs is the raw material for one organization's scoring run.
type analyticsInputs struct {
	members    []models.OrganizationMembership
	activities []models.Activity
	photos     []models.Photo
	tags       []models.PhotoUser
	statuses   []models.CommunicationStatus
	edges      []models.Friendship
}

// ScoreOrganization scores every approved member of the organization and
// returns them sorted by risk severity (high first), stable within a tier.
func (s *AnalyticsService) ScoreOrganization(organizationID string) ([]models.MemberAnalytics, error) {
	now := time.Now()

	inputs, err := s.loadInputs(organizationID, now)
	if err != nil {
		return nil, err
	}

	results := make([]models.MemberAnalytics, 0, len(inputs.members))
	for _, member := range inputs.members {
		results = append(results, scoreMember(member, inputs, now))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RetentionRisk.Severity() < results[j].RetentionRisk.Severity()
	})

	return results, nil
}

// loadInputs fans the independent reads out concurrently; the member list
// comes first since everything else is keyed on the member IDs.
func (s *AnalyticsService) loadInputs(organizationID string, now time.Time) (*analyticsInputs, error) {
	members, err := s.repo.ApprovedMembers(organizationID)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]string, len(members))
	for i, member := range members {
		memberIDs[i] = member.UserID
	}

	inputs := &analyticsInputs{members: members}
	activitySince := now.AddDate(0, -3, 0)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		inputs.activities, err = s.repo.ActivitiesSince(memberIDs, activitySince)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.photos, err = s.repo.PhotosUploadedBy(memberIDs)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.tags, err = s.repo.PhotoTags(memberIDs)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.statuses, err = s.repo.CurrentStatuses(memberIDs, now)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.edges, err = s.friendships.ListAmong(memberIDs)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// scoreMember applies the scoring heuristics to one member.
//
// Communication (0-100): capped contributions from uploaded photos, tag
// appearances, organization-scoped friends and an active status.
// Engagement (0-100): activity frequency since joining plus recency decay.
func scoreMember(member models.OrganizationMembership, inputs *analyticsInputs, now time.Time) models.MemberAnalytics {
	activityCount := 0
	var latest *time.Time
	for _, activity := range inputs.activities {
		if activity.UserID != member.UserID {
			continue
		}
		activityCount++
		latest = laterOf(latest, activity.CreatedAt)
	}

	photosUploaded := 0
	for _, photo := range inputs.photos {
		if photo.UploadedBy != member.UserID {
			continue
		}
		photosUploaded++
		latest = laterOf(latest, photo.CreatedAt)
	}

	taggedIn := 0
	for _, tag := range inputs.tags {
		if tag.UserID == member.UserID {
			taggedIn++
		}
	}

	orgFriendCount := 0
	for _, edge := range inputs.edges {
		if edge.HasParty(member.UserID) {
			orgFriendCount++
		}
	}

	var currentStatus *models.StatusType
	for _, status := range inputs.statuses {
		if status.UserID == member.UserID {
			statusType := status.StatusType
			currentStatus = &statusType
			latest = laterOf(latest, status.UpdatedAt)
			break
		}
	}

	lastActiveAt := latest
	if lastActiveAt == nil {
		lastActiveAt = member.JoinedAt
	}

	photoScore := capInt(photosUploaded*5, 25)
	taggedScore := capInt(taggedIn*3, 25)
	friendScore := capInt(orgFriendCount*10, 25)
	statusScore := 0
	if currentStatus != nil {
		statusScore = 25
	}
	communicationScore := photoScore + taggedScore + friendScore + statusScore

	daysSinceJoined := 1
	if member.JoinedAt != nil {
		daysSinceJoined = daysBetween(*member.JoinedAt, now)
		if daysSinceJoined < 1 {
			daysSinceJoined = 1
		}
	}

	daysSinceLastActive := 999
	if lastActiveAt != nil {
		daysSinceLastActive = daysBetween(*lastActiveAt, now)
	}

	activityFrequency := float64(activityCount) / float64(daysSinceJoined)
	activityScore := activityFrequency * 100
	if activityScore > 50 {
		activityScore = 50
	}
	recencyScore := 50 - float64(daysSinceLastActive)*2
	if recencyScore < 0 {
		recencyScore = 0
	}
	engagementScore := activityScore + recencyScore

	var riskFactors []string
	if daysSinceLastActive > 30 {
		riskFactors = append(riskFactors, "No activity for over 30 days")
	}
	if orgFriendCount <= 2 {
		riskFactors = append(riskFactors, "Few connections within organization")
	}
	if photosUploaded == 0 {
		riskFactors = append(riskFactors, "No photos shared")
	}
	if currentStatus == nil {
		riskFactors = append(riskFactors, "Communication status not set")
	}
	if daysSinceJoined > 90 && activityCount < 10 {
		riskFactors = append(riskFactors, "Low activity despite long membership")
	}

	return models.MemberAnalytics{
		UserID:             member.UserID,
		User:               member.User.Summary(),
		JoinedAt:           member.JoinedAt,
		CommunicationScore: communicationScore,
		EngagementScore:    engagementScore,
		RetentionRisk:      classifyRetentionRisk(engagementScore, len(riskFactors)),
		RiskFactors:        riskFactors,
		LastActiveAt:       lastActiveAt,
		ActivityCount:      activityCount,
		PhotoCount:         photosUploaded,
		FriendCount:        orgFriendCount,
		CurrentStatus:      currentStatus,
	}
}

// classifyRetentionRisk evaluates the tiers in order; the first match wins.
func classifyRetentionRisk(engagementScore float64, riskFactorCount int) models.RetentionRisk {
	if engagementScore < 20 || riskFactorCount >= 3 {
		return models.RetentionRiskHigh
	}
	if engagementScore < 50 || riskFactorCount >= 2 {
		return models.RetentionRiskMedium
	}
	return models.RetentionRiskLow
}

// Summarize aggregates member analytics for the overview cards.
func (s *AnalyticsService) Summarize(members []models.MemberAnalytics) models.AnalyticsSummary {
	return summarize(members, time.Now())
}

func summarize(members []models.MemberAnalytics, now time.Time) models.AnalyticsSummary {
	if len(members) == 0 {
		return models.AnalyticsSummary{}
	}

	var summary models.AnalyticsSummary
	var communicationTotal, engagementTotal float64
	for _, member := range members {
		communicationTotal += float64(member.CommunicationScore)
		engagementTotal += member.EngagementScore

		switch member.RetentionRisk {
		case models.RetentionRiskHigh:
			summary.HighRiskCount++
		case models.RetentionRiskMedium:
			summary.MediumRiskCount++
		}

		if member.LastActiveAt != nil && daysBetween(*member.LastActiveAt, now) <= 7 {
			summary.ActiveInLast7Days++
		}
	}

	total := float64(len(members))
	summary.AvgCommunicationScore = communicationTotal / total
	summary.AvgEngagementScore = engagementTotal / total
	summary.ActiveRate = float64(summary.ActiveInLast7Days) / total * 100
	return summary
}

func laterOf(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		return &candidate
	}
	return current
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func capInt(value, limit int) int {
	if value > limit {
		return limit
	}
	return value
}

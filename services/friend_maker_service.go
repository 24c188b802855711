package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"orgsnap-api/repositories"
)

// FriendMakerService turns a co-tagging event (everyone appearing in one
// photo) into friendship edges: every unordered pair of participants gets
// connected. Existing edges are skipped, and a failure on one pair never
// stops the remaining pairs.
type FriendMakerService struct {
	friendships *repositories.FriendshipRepository
	activities  *ActivityService
	logger      *zap.Logger
}

func NewFriendMakerService(friendships *repositories.FriendshipRepository, activities *ActivityService, logger *zap.Logger) *FriendMakerService {
	return &FriendMakerService{
		friendships: friendships,
		activities:  activities,
		logger:      logger,
	}
}

// EnsureAllPairsConnected connects every unordered pair in userIDs. The
// input is deduplicated first, so repeated IDs cannot yield self-pairs.
// Pair creation is idempotent and commits per pair; errors other than
// "already friends" are collected and returned joined, after every pair has
// been attempted.
func (s *FriendMakerService) EnsureAllPairsConnected(userIDs []string) error {
	unique := dedupe(userIDs)
	if len(unique) == 0 {
		return fmt.Errorf("%w: no users to connect", repositories.ErrInvalidArgument)
	}
	if len(unique) == 1 {
		return nil
	}

	var failures []error
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			if err := s.connectPair(unique[i], unique[j]); err != nil {
				failures = append(failures, fmt.Errorf("connect %s and %s: %w", unique[i], unique[j], err))
			}
		}
	}

	return errors.Join(failures...)
}

// connectPair creates the edge for one pair unless it already exists. A
// conflict from a racing insert counts as success.
func (s *FriendMakerService) connectPair(a, b string) error {
	exists, err := s.friendships.Exists(a, b)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	friendship, err := s.friendships.Create(a, b)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Someone else created the edge between our check and insert.
			return nil
		}
		return err
	}

	s.logger.Info("friendship created from co-tagging",
		zap.String("friendship_id", friendship.ID),
		zap.String("user_id_low", friendship.UserIDLow),
		zap.String("user_id_high", friendship.UserIDHigh))

	if err := s.activities.RecordFriendAdded(friendship); err != nil {
		// The edge exists; the missing activity should not fail the pair.
		s.logger.Warn("failed to record friend added events",
			zap.String("friendship_id", friendship.ID),
			zap.Error(err))
	}

	return nil
}

func dedupe(userIDs []string) []string {
	seen := make(map[string]struct{}, len(userIDs))
	unique := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

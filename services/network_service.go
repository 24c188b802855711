package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
)

// NetworkService computes the 2-hop neighborhood of a user: the graph
// rendered by the network visualization and the flat visibility set that
// gates the status feed. Depth is strictly bounded; nothing past a
// friend-of-friend is ever traversed.
type NetworkService struct {
	db          *gorm.DB
	friendships *repositories.FriendshipRepository
	logger      *zap.Logger
}

func NewNetworkService(db *gorm.DB, friendships *repositories.FriendshipRepository, logger *zap.Logger) *NetworkService {
	return &NetworkService{db: db, friendships: friendships, logger: logger}
}

// fofDiscovery records which direct friend first connects the root to a
// friend-of-friend. One discovery is kept per (friend, fof) pair, never one
// per path.
type fofDiscovery struct {
	friendID string
	fofID    string
}

// BuildNetwork returns the root's self node, direct friends, deduplicated
// friends-of-friends and all edges among the direct-friend set. The self
// node is always present, even with zero friends. Query failures surface as
// errors; an empty graph with a nil error really means no connections.
func (s *NetworkService) BuildNetwork(rootUserID string) (*models.NetworkData, error) {
	var root models.User
	if err := s.db.First(&root, "id = ?", rootUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", repositories.ErrNotFound, rootUserID)
		}
		return nil, err
	}

	friendIDs, err := s.friendships.FriendIDs(rootUserID)
	if err != nil {
		return nil, err
	}

	fofIDs, discoveries, err := s.discoverFriendsOfFriends(rootUserID, friendIDs)
	if err != nil {
		return nil, err
	}

	profiles, err := s.loadProfiles(append(append([]string{rootUserID}, friendIDs...), fofIDs...))
	if err != nil {
		return nil, err
	}

	data := &models.NetworkData{
		Nodes: make([]models.NetworkNode, 0, 1+len(friendIDs)+len(fofIDs)),
		Links: make([]models.NetworkLink, 0, len(friendIDs)+len(discoveries)),
	}

	data.Nodes = append(data.Nodes, profiles.node(rootUserID, models.NodeKindSelf, "You"))

	for _, friendID := range friendIDs {
		data.Nodes = append(data.Nodes, profiles.node(friendID, models.NodeKindFriend, "Friend"))
		data.Links = append(data.Links, models.NetworkLink{
			Source: rootUserID,
			Target: friendID,
			Kind:   models.LinkKindDirect,
		})
	}

	for _, fofID := range fofIDs {
		data.Nodes = append(data.Nodes, profiles.node(fofID, models.NodeKindFriendOfFriend, "Friend of Friend"))
	}
	for _, discovery := range discoveries {
		data.Links = append(data.Links, models.NetworkLink{
			Source: discovery.friendID,
			Target: discovery.fofID,
			Kind:   models.LinkKindIndirect,
		})
	}

	// Edges among the direct friends themselves reveal clustering.
	amongFriends, err := s.friendships.ListAmong(friendIDs)
	if err != nil {
		return nil, err
	}
	for _, friendship := range amongFriends {
		data.Links = append(data.Links, models.NetworkLink{
			Source: friendship.UserIDLow,
			Target: friendship.UserIDHigh,
			Kind:   models.LinkKindDirect,
		})
	}

	return data, nil
}

// VisibleUserIDs is the flat 2-hop visibility set: the root, their direct
// friends and their friends-of-friends, each ID exactly once.
func (s *NetworkService) VisibleUserIDs(rootUserID string) ([]string, error) {
	friendIDs, err := s.friendships.FriendIDs(rootUserID)
	if err != nil {
		return nil, err
	}

	fofIDs, _, err := s.discoverFriendsOfFriends(rootUserID, friendIDs)
	if err != nil {
		return nil, err
	}

	visible := make([]string, 0, 1+len(friendIDs)+len(fofIDs))
	visible = append(visible, rootUserID)
	visible = append(visible, friendIDs...)
	visible = append(visible, fofIDs...)
	return visible, nil
}

// discoverFriendsOfFriends walks one hop past the direct friends. Anyone
// equal to the root or already a direct friend is excluded; a user reachable
// via several friends is emitted once (first discovery wins) while each
// discovering friend still contributes its connecting edge.
func (s *NetworkService) discoverFriendsOfFriends(rootUserID string, friendIDs []string) ([]string, []fofDiscovery, error) {
	if len(friendIDs) == 0 {
		return nil, nil, nil
	}

	edges, err := s.friendships.ListForUsers(friendIDs)
	if err != nil {
		return nil, nil, err
	}

	directSet := make(map[string]struct{}, len(friendIDs))
	for _, friendID := range friendIDs {
		directSet[friendID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var fofIDs []string
	var discoveries []fofDiscovery

	for _, friendID := range friendIDs {
		for _, edge := range edges {
			if !edge.HasParty(friendID) {
				continue
			}
			other := edge.OtherUser(friendID)
			if other == rootUserID {
				continue
			}
			if _, isDirect := directSet[other]; isDirect {
				// Friend-to-friend edges are handled separately.
				continue
			}
			if _, ok := seen[other]; !ok {
				seen[other] = struct{}{}
				fofIDs = append(fofIDs, other)
			}
			discoveries = append(discoveries, fofDiscovery{friendID: friendID, fofID: other})
		}
	}

	return fofIDs, discoveries, nil
}

// profileIndex maps user IDs to their profile and approved organization.
type profileIndex map[string]profileEntry

type profileEntry struct {
	user    models.User
	orgID   *string
	orgName *string
}

func (p profileIndex) node(userID string, kind models.NodeKind, fallbackName string) models.NetworkNode {
	entry, ok := p[userID]
	if !ok {
		return models.NetworkNode{ID: userID, Name: fallbackName, Kind: kind}
	}

	name := fallbackName
	if entry.user.Name != nil && *entry.user.Name != "" {
		name = *entry.user.Name
	}
	return models.NetworkNode{
		ID:               userID,
		Name:             name,
		AvatarURL:        entry.user.AvatarURL,
		Kind:             kind,
		OrganizationID:   entry.orgID,
		OrganizationName: entry.orgName,
	}
}

func (s *NetworkService) loadProfiles(userIDs []string) (profileIndex, error) {
	if len(userIDs) == 0 {
		return profileIndex{}, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	var memberships []models.OrganizationMembership
	if err := s.db.Preload("Organization").
		Where("user_id IN ? AND status = ?", userIDs, models.MembershipStatusApproved).
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	index := make(profileIndex, len(users))
	for _, user := range users {
		index[user.ID] = profileEntry{user: user}
	}
	for _, membership := range memberships {
		entry, ok := index[membership.UserID]
		if !ok {
			continue
		}
		orgID := membership.Organization.ID
		orgName := membership.Organization.Name
		entry.orgID = &orgID
		entry.orgName = &orgName
		index[membership.UserID] = entry
	}

	return index, nil
}

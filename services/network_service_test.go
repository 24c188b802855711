package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
)

func newNetwork(t *testing.T, db *gorm.DB) (*NetworkService, *repositories.FriendshipRepository) {
	t.Helper()

	friendships := repositories.NewFriendshipRepository(db)
	return NewNetworkService(db, friendships, zap.NewNop()), friendships
}

func connect(t *testing.T, friendships *repositories.FriendshipRepository, a, b string) {
	t.Helper()

	_, err := friendships.Create(a, b)
	require.NoError(t, err)
}

func nodeKinds(data *models.NetworkData) map[string]models.NodeKind {
	kinds := make(map[string]models.NodeKind, len(data.Nodes))
	for _, node := range data.Nodes {
		kinds[node.ID] = node.Kind
	}
	return kinds
}

func countLinks(data *models.NetworkData, source, target string, kind models.LinkKind) int {
	count := 0
	for _, link := range data.Links {
		if link.Kind != kind {
			continue
		}
		if (link.Source == source && link.Target == target) ||
			(link.Source == target && link.Target == source) {
			count++
		}
	}
	return count
}

func TestBuildNetworkSelfOnly(t *testing.T) {
	db := newTestDB(t)
	service, _ := newNetwork(t, db)

	createUser(t, db, "user-a", "Alice")

	data, err := service.BuildNetwork("user-a")
	require.NoError(t, err)

	require.Len(t, data.Nodes, 1)
	assert.Equal(t, "user-a", data.Nodes[0].ID)
	assert.Equal(t, models.NodeKindSelf, data.Nodes[0].Kind)
	assert.Equal(t, "Alice", data.Nodes[0].Name)
	assert.Empty(t, data.Links)
}

func TestBuildNetworkUnknownUser(t *testing.T) {
	service, _ := newNetwork(t, newTestDB(t))

	_, err := service.BuildNetwork("no-such-user")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestBuildNetworkChainStopsAtTwoHops(t *testing.T) {
	db := newTestDB(t)
	service, friendships := newNetwork(t, db)

	for _, id := range []string{"user-a", "user-b", "user-c", "user-d"} {
		createUser(t, db, id, id)
	}
	// a - b - c - d: c is two hops from a, d is three.
	connect(t, friendships, "user-a", "user-b")
	connect(t, friendships, "user-b", "user-c")
	connect(t, friendships, "user-c", "user-d")

	data, err := service.BuildNetwork("user-a")
	require.NoError(t, err)

	kinds := nodeKinds(data)
	assert.Equal(t, models.NodeKindSelf, kinds["user-a"])
	assert.Equal(t, models.NodeKindFriend, kinds["user-b"])
	assert.Equal(t, models.NodeKindFriendOfFriend, kinds["user-c"])
	assert.NotContains(t, kinds, "user-d")

	assert.Equal(t, 1, countLinks(data, "user-a", "user-b", models.LinkKindDirect))
	assert.Equal(t, 1, countLinks(data, "user-b", "user-c", models.LinkKindIndirect))
	assert.Len(t, data.Links, 2)
}

func TestBuildNetworkTriangle(t *testing.T) {
	db := newTestDB(t)
	service, friendships := newNetwork(t, db)

	for _, id := range []string{"user-a", "user-b", "user-c"} {
		createUser(t, db, id, id)
	}
	connect(t, friendships, "user-a", "user-b")
	connect(t, friendships, "user-a", "user-c")
	connect(t, friendships, "user-b", "user-c")

	data, err := service.BuildNetwork("user-a")
	require.NoError(t, err)

	kinds := nodeKinds(data)
	require.Len(t, kinds, 3)
	assert.Equal(t, models.NodeKindFriend, kinds["user-b"])
	assert.Equal(t, models.NodeKindFriend, kinds["user-c"])

	// The b-c edge shows up as a single direct link, never as indirect.
	assert.Equal(t, 1, countLinks(data, "user-a", "user-b", models.LinkKindDirect))
	assert.Equal(t, 1, countLinks(data, "user-a", "user-c", models.LinkKindDirect))
	assert.Equal(t, 1, countLinks(data, "user-b", "user-c", models.LinkKindDirect))
	assert.Equal(t, 0, countLinks(data, "user-b", "user-c", models.LinkKindIndirect))
	assert.Len(t, data.Links, 3)
}

func TestBuildNetworkDeduplicatesFriendOfFriend(t *testing.T) {
	db := newTestDB(t)
	service, friendships := newNetwork(t, db)

	for _, id := range []string{"user-a", "user-b", "user-c", "user-d"} {
		createUser(t, db, id, id)
	}
	// d is reachable through both b and c: one node, two connecting edges.
	connect(t, friendships, "user-a", "user-b")
	connect(t, friendships, "user-a", "user-c")
	connect(t, friendships, "user-b", "user-d")
	connect(t, friendships, "user-c", "user-d")

	data, err := service.BuildNetwork("user-a")
	require.NoError(t, err)

	fofNodes := 0
	for _, node := range data.Nodes {
		if node.ID == "user-d" {
			fofNodes++
			assert.Equal(t, models.NodeKindFriendOfFriend, node.Kind)
		}
	}
	assert.Equal(t, 1, fofNodes)

	assert.Equal(t, 1, countLinks(data, "user-b", "user-d", models.LinkKindIndirect))
	assert.Equal(t, 1, countLinks(data, "user-c", "user-d", models.LinkKindIndirect))
}

func TestVisibleUserIDs(t *testing.T) {
	db := newTestDB(t)
	service, friendships := newNetwork(t, db)

	for _, id := range []string{"user-a", "user-b", "user-c", "user-d", "user-e"} {
		createUser(t, db, id, id)
	}
	connect(t, friendships, "user-a", "user-b")
	connect(t, friendships, "user-b", "user-c")
	connect(t, friendships, "user-c", "user-d")
	connect(t, friendships, "user-d", "user-e")

	visible, err := service.VisibleUserIDs("user-a")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"user-a", "user-b", "user-c"}, visible)
}

func TestVisibleUserIDsNoDuplicates(t *testing.T) {
	db := newTestDB(t)
	service, friendships := newNetwork(t, db)

	for _, id := range []string{"user-a", "user-b", "user-c", "user-d"} {
		createUser(t, db, id, id)
	}
	connect(t, friendships, "user-a", "user-b")
	connect(t, friendships, "user-a", "user-c")
	connect(t, friendships, "user-b", "user-d")
	connect(t, friendships, "user-c", "user-d")

	visible, err := service.VisibleUserIDs("user-a")
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, id := range visible {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "user %s appears more than once", id)
	}
	assert.ElementsMatch(t, []string{"user-a", "user-b", "user-c", "user-d"}, visible)
}

package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orgsnap-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the named in-memory database alive for the
	// whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Friendship{}))
	return db
}

func TestCanonicalizeOrdersPair(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	low, high, err := repo.Canonicalize("user-b", "user-a")
	require.NoError(t, err)
	assert.Equal(t, "user-a", low)
	assert.Equal(t, "user-b", high)

	low2, high2, err := repo.Canonicalize("user-a", "user-b")
	require.NoError(t, err)
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

func TestCanonicalizeRejectsSelfPair(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	_, _, err := repo.Canonicalize("user-a", "user-a")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateStoresCanonicalPair(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	friendship, err := repo.Create("user-b", "user-a")
	require.NoError(t, err)
	assert.Equal(t, "user-a", friendship.UserIDLow)
	assert.Equal(t, "user-b", friendship.UserIDHigh)

	exists, err := repo.Exists("user-a", "user-b")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists("user-b", "user-a")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateDuplicatePairConflicts(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	_, err := repo.Create("user-a", "user-b")
	require.NoError(t, err)

	// Reversed order hits the same canonical row.
	_, err = repo.Create("user-b", "user-a")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateSelfPairInvalid(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	_, err := repo.Create("user-a", "user-a")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteRequiresParty(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	friendship, err := repo.Create("user-a", "user-b")
	require.NoError(t, err)

	err = repo.Delete(friendship.ID, "user-c")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, repo.Delete(friendship.ID, "user-b"))

	_, err = repo.Get(friendship.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownFriendship(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	err := repo.Delete("no-such-id", "user-a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForUserAndFriendIDs(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	mustCreate := func(a, b string) {
		_, err := repo.Create(a, b)
		require.NoError(t, err)
	}
	mustCreate("user-a", "user-b")
	mustCreate("user-a", "user-c")
	mustCreate("user-b", "user-c")

	edges, err := repo.ListForUser("user-a")
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	friendIDs, err := repo.FriendIDs("user-a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-b", "user-c"}, friendIDs)
}

func TestListAmongRestrictsBothEndpoints(t *testing.T) {
	repo := NewFriendshipRepository(newTestDB(t))

	mustCreate := func(a, b string) {
		_, err := repo.Create(a, b)
		require.NoError(t, err)
	}
	mustCreate("user-a", "user-b")
	mustCreate("user-a", "user-c")
	mustCreate("user-c", "user-d")

	edges, err := repo.ListAmong([]string{"user-a", "user-b"})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "user-a", edges[0].UserIDLow)
	assert.Equal(t, "user-b", edges[0].UserIDHigh)

	// Fewer than two candidates can never produce an edge.
	edges, err = repo.ListAmong([]string{"user-a"})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

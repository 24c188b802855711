package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orgsnap-api/models"
	"orgsnap-api/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the named in-memory database alive and
	// serializes the concurrent analytics reads.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Organization{},
		&models.OrganizationMembership{},
		&models.Photo{},
		&models.PhotoUser{},
		&models.CommunicationStatus{},
		&models.Activity{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()

	user := models.User{
		ID:       id,
		Name:     &name,
		Email:    id + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
}

func newFriendMaker(t *testing.T, db *gorm.DB) (*FriendMakerService, *repositories.FriendshipRepository) {
	t.Helper()

	friendships := repositories.NewFriendshipRepository(db)
	activities := NewActivityService(db, zap.NewNop())
	return NewFriendMakerService(friendships, activities, zap.NewNop()), friendships
}

func TestEnsureAllPairsConnectedCreatesEveryPair(t *testing.T) {
	db := newTestDB(t)
	maker, friendships := newFriendMaker(t, db)

	users := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	for _, id := range users {
		createUser(t, db, id, "user")
	}

	require.NoError(t, maker.EnsureAllPairsConnected(users))

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			exists, err := friendships.Exists(users[i], users[j])
			require.NoError(t, err)
			assert.True(t, exists, "pair %d-%d should be connected", i, j)
		}
	}
}

func TestEnsureAllPairsConnectedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	maker, _ := newFriendMaker(t, db)

	users := []string{uuid.New().String(), uuid.New().String(), uuid.New().String()}
	for _, id := range users {
		createUser(t, db, id, "user")
	}

	require.NoError(t, maker.EnsureAllPairsConnected(users))
	require.NoError(t, maker.EnsureAllPairsConnected(users))

	var edgeCount int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&edgeCount).Error)
	assert.EqualValues(t, 3, edgeCount)

	// Each new edge records one activity per endpoint; the repeated run must
	// not add more.
	var activityCount int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type = ?", models.ActivityFriendAdded).
		Count(&activityCount).Error)
	assert.EqualValues(t, 6, activityCount)
}

func TestEnsureAllPairsConnectedDeduplicatesInput(t *testing.T) {
	db := newTestDB(t)
	maker, _ := newFriendMaker(t, db)

	a, b := uuid.New().String(), uuid.New().String()
	createUser(t, db, a, "a")
	createUser(t, db, b, "b")

	require.NoError(t, maker.EnsureAllPairsConnected([]string{a, a, b, b, ""}))

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureAllPairsConnectedEmptyInput(t *testing.T) {
	maker, _ := newFriendMaker(t, newTestDB(t))

	err := maker.EnsureAllPairsConnected(nil)
	assert.ErrorIs(t, err, repositories.ErrInvalidArgument)

	err = maker.EnsureAllPairsConnected([]string{"", ""})
	assert.ErrorIs(t, err, repositories.ErrInvalidArgument)
}

func TestEnsureAllPairsConnectedSingleUser(t *testing.T) {
	db := newTestDB(t)
	maker, _ := newFriendMaker(t, db)

	require.NoError(t, maker.EnsureAllPairsConnected([]string{uuid.New().String()}))

	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"orgsnap-api/models"
)

// FriendshipRepository is the single write/read path for friendship edges.
// Every pair goes through canonical ordering before touching the table, and
// the unique index on (user_id_low, user_id_high) is the only mechanism
// needed for correctness under concurrent inserts: the loser of a race gets
// ErrConflict.
type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Canonicalize orders two user IDs into their storage order. Fails with
// ErrInvalidArgument for a self-pair.
func (r *FriendshipRepository) Canonicalize(a, b string) (low, high string, err error) {
	low, high, err = models.CanonicalPair(a, b)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return low, high, nil
}

// Exists reports whether an edge for the unordered pair is present.
func (r *FriendshipRepository) Exists(a, b string) (bool, error) {
	low, high, err := r.Canonicalize(a, b)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.Model(&models.Friendship{}).
		Where("user_id_low = ? AND user_id_high = ?", low, high).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the edge for the unordered pair. A duplicate pair fails
// with ErrConflict, a self-pair with ErrInvalidArgument.
func (r *FriendshipRepository) Create(a, b string) (*models.Friendship, error) {
	friendship, err := models.NewFriendship(a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := r.db.Create(friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: friendship already exists", ErrConflict)
		}
		return nil, err
	}
	return friendship, nil
}

// Get returns a friendship by ID.
func (r *FriendshipRepository) Get(friendshipID string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.First(&friendship, "id = ?", friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: friendship %s", ErrNotFound, friendshipID)
		}
		return nil, err
	}
	return &friendship, nil
}

// Delete removes a friendship. Only the two parties may delete it.
func (r *FriendshipRepository) Delete(friendshipID, requestingUserID string) error {
	friendship, err := r.Get(friendshipID)
	if err != nil {
		return err
	}

	if !friendship.HasParty(requestingUserID) {
		return fmt.Errorf("%w: not a party of this friendship", ErrForbidden)
	}

	return r.db.Delete(&models.Friendship{}, "id = ?", friendshipID).Error
}

// ListForUser returns every edge touching the given user, in store order.
func (r *FriendshipRepository) ListForUser(userID string) ([]models.Friendship, error) {
	var friendships []models.Friendship
	if err := r.db.
		Where("user_id_low = ? OR user_id_high = ?", userID, userID).
		Order("created_at").
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// ListForUsers returns every edge touching any of the given users.
func (r *FriendshipRepository) ListForUsers(userIDs []string) ([]models.Friendship, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var friendships []models.Friendship
	if err := r.db.
		Where("user_id_low IN ? OR user_id_high IN ?", userIDs, userIDs).
		Order("created_at").
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// ListAmong returns edges whose both endpoints lie in the given set.
func (r *FriendshipRepository) ListAmong(userIDs []string) ([]models.Friendship, error) {
	if len(userIDs) < 2 {
		return nil, nil
	}

	var friendships []models.Friendship
	if err := r.db.
		Where("user_id_low IN ? AND user_id_high IN ?", userIDs, userIDs).
		Order("created_at").
		Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// FriendIDs unfolds the edges touching userID into the counterpart IDs.
func (r *FriendshipRepository) FriendIDs(userID string) ([]string, error) {
	friendships, err := r.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, friendship := range friendships {
		friendIDs = append(friendIDs, friendship.OtherUser(userID))
	}
	return friendIDs, nil
}

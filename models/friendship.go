package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSelfFriendship is returned when a friendship between a user and
// themselves is attempted.
var ErrSelfFriendship = errors.New("cannot create friendship with yourself")

// Friendship is an undirected edge between two users. The pair is always
// stored in canonical order (UserIDLow < UserIDHigh) so the unique index on
// the two columns guarantees at most one row per unordered pair.
type Friendship struct {
	ID         string    `json:"id" gorm:"primaryKey;size:191"`
	UserIDLow  string    `json:"user_id_low" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair,priority:1;index"`
	UserIDHigh string    `json:"user_id_high" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair,priority:2;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// CanonicalPair orders two user IDs so the smaller one comes first.
// All friendship writes must go through this (or NewFriendship) so the
// canonical-order invariant is enforced in one place.
func CanonicalPair(a, b string) (low, high string, err error) {
	if a == b {
		return "", "", ErrSelfFriendship
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// NewFriendship builds a canonical friendship row for the given pair.
func NewFriendship(a, b string) (*Friendship, error) {
	low, high, err := CanonicalPair(a, b)
	if err != nil {
		return nil, err
	}
	return &Friendship{
		ID:         uuid.New().String(),
		UserIDLow:  low,
		UserIDHigh: high,
	}, nil
}

// HasParty reports whether the given user is one of the two endpoints.
func (f *Friendship) HasParty(userID string) bool {
	return f.UserIDLow == userID || f.UserIDHigh == userID
}

// OtherUser returns the counterpart of the given endpoint. Callers must
// ensure userID is a party of the edge.
func (f *Friendship) OtherUser(userID string) string {
	if f.UserIDLow == userID {
		return f.UserIDHigh
	}
	return f.UserIDLow
}

// FriendshipWithUser pairs an edge with the counterpart's profile for
// friend-list responses.
type FriendshipWithUser struct {
	Friendship
	Friend UserSummary `json:"friend"`
}

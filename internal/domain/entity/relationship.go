package entity

import "time"

// FriendRequest is a directed, unresolved edge from requester to recipient.
// It exists only while pending; accept converts it into a Friendship row,
// reject deletes it.
type FriendRequest struct {
	RequesterID string
	RecipientID string
	CreatedAt   time.Time
}

// Friendship is a resolved, symmetric edge. Exactly one row exists per pair,
// stored with UserA < UserB so symmetry holds by construction.
type Friendship struct {
	UserA     string
	UserB     string
	CreatedAt time.Time
}

// CanonicalPair orders two user ids into the (UserA, UserB) storage order.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

package repository

import (
	"context"

	"github.com/ndelorme/trellis/internal/domain/entity"
)

// RelationshipRepository owns the pending-request and friendship edge tables.
//
// CreateRequest, Accept and Reject are the read-then-write sections of the
// engine; implementations must give them compare-and-delete semantics so that
// two concurrent resolutions of the same edge cannot both succeed.
type RelationshipRepository interface {
	// CreateRequest inserts a pending edge requester->recipient. If the
	// reverse pending edge already exists it resolves both into a friendship
	// instead and reports mutual=true. Returns ErrDuplicateEdge when the same
	// edge is already pending or the pair is already friends.
	CreateRequest(ctx context.Context, requesterID, recipientID string) (mutual bool, err error)

	// Accept atomically removes the pending edge requester->user and records
	// the friendship. Returns ErrEdgeNotFound when no such pending edge
	// exists (including when a concurrent accept got there first).
	Accept(ctx context.Context, userID, requesterID string) error

	// Reject removes the pending edge requester->user without creating a
	// friendship. Returns ErrEdgeNotFound when no such pending edge exists.
	Reject(ctx context.Context, userID, requesterID string) error

	// Pending lists the incoming pending requests for a user, oldest first.
	Pending(ctx context.Context, userID string) ([]entity.UserRef, error)

	// Friends lists the user's friends, oldest friendship first.
	Friends(ctx context.Context, userID string) ([]entity.UserRef, error)

	// FriendIDs returns the ids of the user's friends.
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

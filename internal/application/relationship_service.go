package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
	"github.com/ndelorme/trellis/pkg/helpers"
	"github.com/ndelorme/trellis/pkg/notify"
)

const friendCacheTTL = 5 * time.Minute

func friendsKey(userID string) string {
	return "user:friends:" + userID
}

// RelationshipService drives the friend-request state machine. The edge
// store is the source of truth; Redis only caches friend-id sets and is
// invalidated on every transition, and notifications are strictly best
// effort.
type RelationshipService struct {
	Users  repository.UserRepository
	Edges  repository.RelationshipRepository
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewRelationshipService(users repository.UserRepository, edges repository.RelationshipRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger) *RelationshipService {
	return &RelationshipService{Users: users, Edges: edges, Redis: rdb, Pub: pub, Logger: logger}
}

// Request creates a pending edge requester->recipient. When the recipient
// had already sent the reverse request, both requests collapse into a
// friendship immediately: mutual interest is an accept, not a second edge.
func (s *RelationshipService) Request(ctx context.Context, requesterID, recipientID string) error {
	if requesterID == "" || recipientID == "" || requesterID == recipientID {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(recipientID); err != nil {
		return ErrInvalidInput
	}

	recipient, err := s.Users.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	mutual, err := s.Edges.CreateRequest(ctx, requesterID, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEdge) {
			return ErrRelationshipExists
		}
		return err
	}

	s.invalidateFriendCache(ctx, requesterID, recipientID)

	if mutual {
		// The earlier requester is the one being told their request landed.
		s.publish(ctx, notify.EventFriendAccepted, recipient, requesterID)
	} else {
		s.publish(ctx, notify.EventFriendRequest, recipient, requesterID)
	}
	return nil
}

// Pending lists the incoming pending requests for a user, oldest first.
func (s *RelationshipService) Pending(ctx context.Context, userID string) ([]entity.UserRef, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.Edges.Pending(ctx, userID)
}

// Accept resolves a pending edge into a friendship. The two mutations
// commit together in the store; the loser of a concurrent accept observes
// the edge already gone.
func (s *RelationshipService) Accept(ctx context.Context, userID, requesterID string) error {
	if userID == "" || requesterID == "" || userID == requesterID {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(requesterID); err != nil {
		return ErrInvalidInput
	}

	if err := s.Edges.Accept(ctx, userID, requesterID); err != nil {
		if errors.Is(err, repository.ErrEdgeNotFound) {
			return ErrNoPendingRequest
		}
		return err
	}

	s.invalidateFriendCache(ctx, userID, requesterID)

	if requester, err := s.Users.GetByID(ctx, requesterID); err == nil {
		s.publish(ctx, notify.EventFriendAccepted, requester, userID)
	}
	return nil
}

// Reject removes a pending edge without creating a friendship. Rejecting an
// already-resolved edge is an error; resolved state is never re-observable
// as pending.
func (s *RelationshipService) Reject(ctx context.Context, userID, requesterID string) error {
	if userID == "" || requesterID == "" {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(requesterID); err != nil {
		return ErrInvalidInput
	}

	if err := s.Edges.Reject(ctx, userID, requesterID); err != nil {
		if errors.Is(err, repository.ErrEdgeNotFound) {
			return ErrNoPendingRequest
		}
		return err
	}
	return nil
}

// Friends lists a user's friends, oldest friendship first.
func (s *RelationshipService) Friends(ctx context.Context, userID string) ([]entity.UserRef, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.Edges.Friends(ctx, userID)
}

// FriendIDs returns the friend-id set for a user, served from the Redis
// cache when possible. Correctness never depends on the cache.
func (s *RelationshipService) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	if s.Redis != nil {
		var cached []string
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, friendsKey(userID), &cached); err == nil && hit {
			return cached, nil
		}
	}

	ids, err := s.Edges.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, friendsKey(userID), ids, friendCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("friend cache write failed")
		}
	}
	return ids, nil
}

func (s *RelationshipService) requireUser(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return ErrUserNotFound
	}
	exists, err := s.Users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (s *RelationshipService) invalidateFriendCache(ctx context.Context, userIDs ...string) {
	if s.Redis == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, friendsKey(id))
	}
	if err := helpers.RedisDel(ctx, s.Redis, keys...); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("friend cache invalidation failed")
	}
}

// publish enqueues a notification for recipient about an action performed by
// actorID. Failures are logged and swallowed.
func (s *RelationshipService) publish(ctx context.Context, event string, recipient *entity.User, actorID string) {
	if s.Pub == nil {
		return
	}
	actor, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		return
	}
	job := notify.Job{
		Event:         event,
		RecipientID:   recipient.ID,
		RecipientName: recipient.UserName,
		Email:         recipient.Email,
		ActorName:     actor.UserName,
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", event).Warn("notification publish failed")
	}
}

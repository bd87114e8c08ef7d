package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
)

// FeedService assembles the visibility-scoped wall: a viewer sees their own
// posts and their friends' posts, nothing else.
type FeedService struct {
	Posts  repository.PostRepository
	Rel    *RelationshipService
	Logger *logrus.Logger
	Limit  int
}

func NewFeedService(posts repository.PostRepository, rel *RelationshipService, logger *logrus.Logger, limit int) *FeedService {
	if limit <= 0 {
		limit = 200
	}
	return &FeedService{Posts: posts, Rel: rel, Logger: logger, Limit: limit}
}

// CreatePost stores a new wall entry, timestamped at acceptance.
func (s *FeedService) CreatePost(ctx context.Context, authorID, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	p := &entity.Post{AuthorID: authorID, Content: content}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Feed returns the posts visible to the viewer, most recent first. The
// visible author set is the viewer plus their accepted friends.
func (s *FeedService) Feed(ctx context.Context, viewerID string) ([]entity.Post, error) {
	if err := s.Rel.requireUser(ctx, viewerID); err != nil {
		return nil, err
	}
	friendIDs, err := s.Rel.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authors := append(friendIDs, viewerID)
	return s.Posts.ByAuthors(ctx, authors, s.Limit)
}

// Wall returns a single author's posts, most recent first. No friendship
// filter applies; any authenticated caller may read a profile's wall.
func (s *FeedService) Wall(ctx context.Context, authorID string) ([]entity.Post, error) {
	if err := s.Rel.requireUser(ctx, authorID); err != nil {
		return nil, err
	}
	return s.Posts.ByAuthor(ctx, authorID, s.Limit)
}

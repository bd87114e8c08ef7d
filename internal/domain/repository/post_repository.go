package repository

import (
	"context"

	"github.com/ndelorme/trellis/internal/domain/entity"
)

// PostRepository persists immutable wall posts.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error

	// ByAuthor returns the author's posts, newest first.
	ByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error)

	// ByAuthors returns posts whose author is in the given set, newest first.
	// Ties on created_at resolve to the later-inserted post first.
	ByAuthors(ctx context.Context, authorIDs []string, limit int) ([]entity.Post, error)
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, p.AuthorID, p.Content)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (r *PostRepository) ByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, content, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, authorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepository) ByAuthors(ctx context.Context, authorIDs []string, limit int) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, content, created_at
		FROM posts
		WHERE author_id = ANY($1)
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, authorIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]entity.Post, error) {
	posts := make([]entity.Post, 0)
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)

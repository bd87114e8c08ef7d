package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
)

// RelationshipRepository stores edges in two normalized tables:
// friend_requests (directed, pending) and friendships (canonical pair,
// resolved). Every transition runs in a single transaction, and resolutions
// hinge on the row count of a DELETE, so two concurrent resolutions of the
// same edge cannot both succeed. Creation races on the same pair are closed
// by the canonical-pair unique index on friend_requests: two racing mutual
// requests cannot both insert, the loser gets a unique violation.
type RelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{pool: pool}
}

func (r *RelationshipRepository) CreateRequest(ctx context.Context, requesterID, recipientID string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	a, b := entity.CanonicalPair(requesterID, recipientID)

	// Already friends: a pending edge between friends is never allowed.
	var friends bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2)
	`, a, b).Scan(&friends)
	if err != nil {
		return false, err
	}
	if friends {
		return false, repository.ErrDuplicateEdge
	}

	// Reverse pending edge: both parties want the link, resolve directly.
	res, err := tx.Exec(ctx, `
		DELETE FROM friend_requests
		WHERE requester_id = $1 AND recipient_id = $2
	`, recipientID, requesterID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO friendships (user_a, user_b) VALUES ($1, $2)
		`, a, b); err != nil {
			return false, err
		}
		return true, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO friend_requests (requester_id, recipient_id) VALUES ($1, $2)
	`, requesterID, recipientID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, repository.ErrDuplicateEdge
		}
		return false, err
	}
	return false, tx.Commit(ctx)
}

func (r *RelationshipRepository) Accept(ctx context.Context, userID, requesterID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Compare-and-delete: the loser of a concurrent accept sees zero rows.
	res, err := tx.Exec(ctx, `
		DELETE FROM friend_requests
		WHERE requester_id = $1 AND recipient_id = $2
	`, requesterID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrEdgeNotFound
	}

	// Clear a reverse pending edge too, so the pair can never be both
	// pending and friends after the commit.
	if _, err := tx.Exec(ctx, `
		DELETE FROM friend_requests
		WHERE requester_id = $1 AND recipient_id = $2
	`, userID, requesterID); err != nil {
		return err
	}

	a, b := entity.CanonicalPair(userID, requesterID)
	if _, err := tx.Exec(ctx, `
		INSERT INTO friendships (user_a, user_b) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, a, b); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *RelationshipRepository) Reject(ctx context.Context, userID, requesterID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM friend_requests
		WHERE requester_id = $1 AND recipient_id = $2
	`, requesterID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrEdgeNotFound
	}
	return nil
}

func (r *RelationshipRepository) Pending(ctx context.Context, userID string) ([]entity.UserRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.user_name
		FROM friend_requests fr
		JOIN users u ON u.id = fr.requester_id
		WHERE fr.recipient_id = $1
		ORDER BY fr.created_at, u.user_name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRefs(rows)
}

func (r *RelationshipRepository) Friends(ctx context.Context, userID string) ([]entity.UserRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.user_name
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END
		WHERE f.user_a = $1 OR f.user_b = $1
		ORDER BY f.created_at, u.user_name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRefs(rows)
}

func (r *RelationshipRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END
		FROM friendships
		WHERE user_a = $1 OR user_b = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectRefs(rows pgx.Rows) ([]entity.UserRef, error) {
	refs := make([]entity.UserRef, 0)
	for rows.Next() {
		var ref entity.UserRef
		if err := rows.Scan(&ref.ID, &ref.UserName); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

var _ repository.RelationshipRepository = (*RelationshipRepository)(nil)

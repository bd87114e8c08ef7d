package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, user_name, password_hash, email, first_name, last_name,
	gender, age, address, photo, presentation, role, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.Email, &u.FirstName,
		&u.LastName, &u.Gender, &u.Age, &u.Address, &u.Photo, &u.Presentation,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_name, password_hash, email, first_name, last_name,
			gender, age, address, photo, presentation, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, u.UserName, u.PasswordHash, u.Email, u.FirstName, u.LastName,
		u.Gender, u.Age, u.Address, u.Photo, u.Presentation, u.Role)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByUserName(ctx context.Context, name string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_name = $1
	`, name))
}

// UpdateProfile writes only the mutable profile fields. Identity (user_name)
// and credentials stay untouched through this path.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, gender = $4, age = $5,
			address = $6, presentation = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.FirstName, u.LastName, u.Gender, u.Age,
		u.Address, u.Presentation, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, id, photoURL string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET photo = $1, updated_at = now()
		WHERE id = $2
	`, photoURL, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SearchByName is a case-insensitive substring scan over user names. It only
// ever projects id and user_name. The query is treated as a literal: LIKE
// metacharacters in it are escaped, they never widen the match.
func (r *UserRepository) SearchByName(ctx context.Context, query string, limit int) ([]entity.UserRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_name
		FROM users
		WHERE user_name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY user_name
		LIMIT $2
	`, escapeLike(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.UserRepository = (*UserRepository)(nil)

package repository

import (
	"context"

	"github.com/ndelorme/trellis/internal/domain/entity"
)

// UserRepository defines user-related persistence operations.
// Lookups by user name are case-sensitive exact matches; SearchByName is the
// only case-insensitive read and never returns credential fields.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUserName(ctx context.Context, name string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	UpdatePhoto(ctx context.Context, id, photoURL string) error
	SearchByName(ctx context.Context, query string, limit int) ([]entity.UserRef, error)
	Exists(ctx context.Context, id string) (bool, error)
}

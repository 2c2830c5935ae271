package repository

import (
	"context"
	"errors"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations. Infrastructure
// maps driver-specific failures onto these; the application layer translates
// them into its own taxonomy.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	// GetByID returns the user with the password field stripped.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
}

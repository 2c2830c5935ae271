package repository

import (
	"context"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
)

// BookRepository defines the interface for book catalog persistence.
// List returns one page ordered newest-first together with the total count
// matching the filter; ownerID == "" means no ownership filter.
type BookRepository interface {
	Create(ctx context.Context, b *entity.Book) error
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	List(ctx context.Context, ownerID string, skip, limit int64) ([]entity.Book, int64, error)
	Delete(ctx context.Context, id string) error
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	"github.com/bookwormhq/bookworm-api/internal/domain/repository"
)

const booksCollection = "books"

type bookDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Rating      int                `bson:"rating,omitempty"`
	Image       string             `bson:"image"`
	User        primitive.ObjectID `bson:"user"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *bookDoc) toEntity() entity.Book {
	return entity.Book{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Rating:      d.Rating,
		Image:       d.Image,
		UserID:      d.User.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(booksCollection)}
}

func (r *BookRepository) Create(ctx context.Context, b *entity.Book) error {
	owner, err := primitive.ObjectIDFromHex(b.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	now := time.Now().UTC()
	doc := bookDoc{
		Title:       b.Title,
		Description: b.Description,
		Rating:      b.Rating,
		Image:       b.Image,
		User:        owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	b := doc.toEntity()
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context, ownerID string, skip, limit int64) ([]entity.Book, int64, error) {
	filter := bson.M{}
	if ownerID != "" {
		oid, err := primitive.ObjectIDFromHex(ownerID)
		if err != nil {
			return nil, 0, repository.ErrNotFound
		}
		filter["user"] = oid
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode books: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	books := make([]entity.Book, 0, len(docs))
	for i := range docs {
		books = append(books, docs[i].toEntity())
	}
	return books, total, nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BookRepository = (*BookRepository)(nil)

package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/internal/upload"
)

// CoverUploader is the slice of the upload pipeline the book service needs.
type CoverUploader interface {
	Upload(ctx context.Context, in upload.ImageInput) (string, error)
	Delete(ctx context.Context, secureURL string) error
}

// BookService composes the catalog store, the upload pipeline, and the
// resolved caller identity into the CRUD operations.
type BookService struct {
	Books        repo.BookRepository
	Users        repo.UserRepository
	Covers       CoverUploader
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESBooksIndex string
}

func NewBookService(books repo.BookRepository, users repo.UserRepository, covers CoverUploader, logger *logrus.Logger, es *elasticsearch.Client, esBooksIndex string) *BookService {
	return &BookService{
		Books:        books,
		Users:        users,
		Covers:       covers,
		Logger:       logger,
		ES:           es,
		ESBooksIndex: esBooksIndex,
	}
}

// BookOwner is the owner projection attached to book reads.
type BookOwner struct {
	ID           string `json:"id"`
	Username     string `json:"userName"`
	ProfileImage string `json:"profileImage"`
}

// BookView is a book with its owner's display fields attached.
type BookView struct {
	entity.Book
	User BookOwner `json:"user"`
}

// BookPage is one page of books plus pagination totals.
type BookPage struct {
	Books      []BookView `json:"books"`
	Page       int64      `json:"currentPage"`
	Total      int64      `json:"totalBooks"`
	TotalPages int64      `json:"totalPages"`
}

type CreateBookInput struct {
	Title       string
	Description string
	Rating      int
	Image       upload.ImageInput
}

func validateBookInput(in CreateBookInput) error {
	title := strings.TrimSpace(in.Title)
	if len(title) < 2 || len(title) > 100 {
		return fmt.Errorf("%w: title must be 2-100 characters", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

// Create persists a new book for the resolved identity. When an image is
// present the upload pipeline runs first and a pipeline failure aborts the
// whole creation, so no record ever points at an unconfirmed URL.
func (s *BookService) Create(ctx context.Context, ownerID string, in CreateBookInput) (*BookView, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateBookInput(in); err != nil {
		return nil, err
	}

	imageURL := ""
	if in.Image != nil {
		url, err := s.Covers.Upload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	b := &entity.Book{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Rating:      in.Rating,
		Image:       imageURL,
		UserID:      ownerID,
	}
	if err := s.Books.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.indexBook(ctx, b)

	views := s.attachOwners(ctx, []entity.Book{*b})
	return &views[0], nil
}

// List returns one page of the whole catalog, newest first.
func (s *BookService) List(ctx context.Context, page, limit int64) (*BookPage, error) {
	return s.list(ctx, "", page, limit)
}

// ListByOwner is List filtered to the caller's books.
func (s *BookService) ListByOwner(ctx context.Context, ownerID string, page, limit int64) (*BookPage, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	return s.list(ctx, ownerID, page, limit)
}

func (s *BookService) list(ctx context.Context, ownerID string, page, limit int64) (*BookPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	books, total, err := s.Books.List(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return &BookPage{
		Books:      s.attachOwners(ctx, books),
		Page:       page,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Get returns one book with its owner's display name attached.
func (s *BookService) Get(ctx context.Context, id string) (*BookView, error) {
	b, err := s.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	views := s.attachOwners(ctx, []entity.Book{*b})
	return &views[0], nil
}

// Delete removes the caller's book. The catalog record is removed even when
// the remote cover deletion fails; that failure comes back as a non-empty
// warning so the caller can surface it separately.
func (s *BookService) Delete(ctx context.Context, ownerID, id string) (warning string, err error) {
	if ownerID == "" {
		return "", ErrUnauthenticated
	}
	b, err := s.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get book: %w", err)
	}
	if b.UserID != ownerID {
		return "", ErrForbidden
	}

	if b.Image != "" {
		if dErr := s.Covers.Delete(ctx, b.Image); dErr != nil {
			warning = dErr.Error()
			if s.Logger != nil {
				s.Logger.WithError(dErr).WithField("book_id", id).Warn("cover deletion failed, removing record anyway")
			}
		}
	}

	if err := s.Books.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return warning, ErrNotFound
		}
		return warning, fmt.Errorf("delete book: %w", err)
	}
	s.removeFromIndex(ctx, id)
	return warning, nil
}

// attachOwners resolves owner display fields for a page of books. Owners are
// fetched once per distinct user; a missing owner leaves the projection
// empty rather than failing the read.
func (s *BookService) attachOwners(ctx context.Context, books []entity.Book) []BookView {
	owners := make(map[string]BookOwner, len(books))
	views := make([]BookView, 0, len(books))
	for _, b := range books {
		owner, ok := owners[b.UserID]
		if !ok {
			owner = BookOwner{ID: b.UserID}
			if u, err := s.Users.GetByID(ctx, b.UserID); err == nil {
				owner.Username = u.Username
				owner.ProfileImage = u.ProfileImage
			}
			owners[b.UserID] = owner
		}
		views = append(views, BookView{Book: b, User: owner})
	}
	return views
}

func (s *BookService) indexBook(ctx context.Context, b *entity.Book) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          b.ID,
		"title":       b.Title,
		"description": b.Description,
		"rating":      b.Rating,
		"user":        b.UserID,
		"created_at":  b.CreatedAt.Format(time.RFC3339Nano),
	}
	body, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESBooksIndex, DocumentID: b.ID, Body: strings.NewReader(string(body)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", b.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("book_id", b.ID).Warn("es index response error")
	}
}

func (s *BookService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESBooksIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("book_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title and description. Returns an
// empty result when Elasticsearch is not configured.
func (s *BookService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": size,
	}
	body, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESBooksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

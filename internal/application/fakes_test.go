package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/internal/upload"
)

// In-memory repository fakes mirroring the persistence contracts, including
// sentinel errors and newest-first list ordering.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repo.ErrDuplicateKey
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repo.ErrNotFound
}

type fakeBookRepo struct {
	mu    sync.Mutex
	seq   int
	books map[string]entity.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[string]entity.Book{}}
}

func (f *fakeBookRepo) Create(_ context.Context, b *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	b.ID = fmt.Sprintf("book-%d", f.seq)
	b.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	b.UpdatedAt = b.CreatedAt
	f.books[b.ID] = *b
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id string) (*entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookRepo) List(_ context.Context, ownerID string, skip, limit int64) ([]entity.Book, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]entity.Book, 0, len(f.books))
	for _, b := range f.books {
		if ownerID != "" && b.UserID != ownerID {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if skip >= total {
		return []entity.Book{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func newRegisteredUser(t *testing.T, users *fakeUserRepo, username, email string) *entity.User {
	t.Helper()
	u := &entity.User{Username: username, Email: email, Password: "hashed"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// raceUserRepo never sees the existing user on lookup but still enforces the
// unique index on insert.
type raceUserRepo struct {
	*fakeUserRepo
}

func (r *raceUserRepo) GetByUsernameOrEmail(context.Context, string, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

// fakeUploader satisfies CoverUploader with configurable failures.
type fakeUploader struct {
	uploads   int
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeUploader) Upload(_ context.Context, in upload.ImageInput) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if in == nil {
		return "", upload.ErrInvalidPayload
	}
	f.uploads++
	return fmt.Sprintf("https://storage.googleapis.com/test-bucket/book-covers/img-%d", f.uploads), nil
}

func (f *fakeUploader) Delete(_ context.Context, secureURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, secureURL)
	return nil
}

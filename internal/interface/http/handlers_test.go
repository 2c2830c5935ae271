package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bookwormhq/bookworm-api/internal/application"
	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/internal/interface/middleware"
	"github.com/bookwormhq/bookworm-api/internal/upload"
	"github.com/bookwormhq/bookworm-api/pkg/helpers"
	"github.com/bookwormhq/bookworm-api/pkg/validation"
)

type memUserRepo struct {
	seq   int
	users map[string]entity.User
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range m.users {
		if e.Email == u.Email || e.Username == u.Username {
			return repo.ErrDuplicateKey
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	m.users[u.ID] = *u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Password = ""
	return &u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repo.ErrNotFound
}

type memBookRepo struct {
	seq   int
	books map[string]entity.Book
}

func (m *memBookRepo) Create(_ context.Context, b *entity.Book) error {
	m.seq++
	b.ID = fmt.Sprintf("book-%d", m.seq)
	b.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.books[b.ID] = *b
	return nil
}

func (m *memBookRepo) GetByID(_ context.Context, id string) (*entity.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &b, nil
}

func (m *memBookRepo) List(_ context.Context, ownerID string, skip, limit int64) ([]entity.Book, int64, error) {
	all := make([]entity.Book, 0, len(m.books))
	for _, b := range m.books {
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

func (m *memBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.books[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

type memUploader struct {
	seq       int
	deleteErr error
}

func (m *memUploader) Upload(_ context.Context, in upload.ImageInput) (string, error) {
	if in == nil {
		return "", upload.ErrInvalidPayload
	}
	m.seq++
	return fmt.Sprintf("https://storage.googleapis.com/t/book-covers/img-%d", m.seq), nil
}

func (m *memUploader) Delete(context.Context, string) error { return m.deleteErr }

type testAPI struct {
	engine   *gin.Engine
	uploader *memUploader
	books    *memBookRepo
}

// newTestAPI wires handlers and routes the way the router modules do, minus
// redis-backed rate limiting.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := &memUserRepo{users: map[string]entity.User{}}
	books := &memBookRepo{books: map[string]entity.Book{}}
	uploader := &memUploader{}
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)

	authSvc := application.NewAuthService(users, jwt, nil, nil)
	bookSvc := application.NewBookService(books, users, uploader, nil, nil, "")

	authH := NewAuthHandler(authSvc, nil)
	bookH := NewBookHandler(bookSvc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/books", bookH.List)
	authed := api.Group("", middleware.Auth(users, jwt))
	authed.GET("/books/user", bookH.ListMine)
	authed.GET("/books/search", bookH.Search)
	authed.POST("/books", bookH.Create)
	authed.DELETE("/books/:id", bookH.Delete)
	api.GET("/books/:id", bookH.Get)

	return &testAPI{engine: r, uploader: uploader, books: books}
}

func (a *testAPI) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testAPI) registerAndLogin(t *testing.T, username, email string) string {
	t.Helper()
	w := a.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"userName": username, "email": email, "password": "secret5",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"userName": "ursula", "email": "ursula@example.com", "password": "secret5",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	require.Equal(t, "ursula", user["userName"])
	_, hasPassword := user["password"]
	require.False(t, hasPassword, "password must never appear in responses")

	// Duplicate registration conflicts.
	w = api.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"userName": "ursula", "email": "ursula@example.com", "password": "secret5",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ursula@example.com", "password": "secret5",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.doJSON(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ursula@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidationDetails(t *testing.T) {
	api := newTestAPI(t)

	w := api.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"userName": "u", "email": "not-an-email", "password": "abc",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	details := body["error"].(map[string]any)
	require.Contains(t, details, "userName")
	require.Contains(t, details, "email")
	require.Contains(t, details, "password")
}

func TestCreateBookRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	w := api.doJSON(http.MethodPost, "/api/books", "", gin.H{
		"title": "Frankenstein", "description": "a modern prometheus", "rating": 5,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookPaginationShape(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "ursula", "ursula@example.com")

	for i := 1; i <= 3; i++ {
		w := api.doJSON(http.MethodPost, "/api/books", token, gin.H{
			"title": fmt.Sprintf("book number %d", i), "description": "d", "rating": 4,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.doJSON(http.MethodGet, "/api/books?page=2&limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	require.Equal(t, float64(2), data["currentPage"])
	require.Equal(t, float64(3), data["totalBooks"])
	require.Equal(t, float64(3), data["totalPages"])
	books := data["books"].([]any)
	require.Len(t, books, 1)
	first := books[0].(map[string]any)
	require.Equal(t, "book number 2", first["title"])
	owner := first["user"].(map[string]any)
	require.Equal(t, "ursula", owner["userName"])
}

func TestGetBookNotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.doJSON(http.MethodGet, "/api/books/book-404", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBookReportsCoverWarning(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "ursula", "ursula@example.com")

	w := api.doJSON(http.MethodPost, "/api/books", token, gin.H{
		"title": "Frankenstein", "description": "d", "rating": 5,
		"image": "data:image/png;base64,aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)["data"].(map[string]any)
	id := created["id"].(string)
	require.Contains(t, created["image"], "book-covers/")

	api.uploader.deleteErr = upload.ErrDeletionFailed

	w = api.doJSON(http.MethodDelete, "/api/books/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	meta := body["meta"].(map[string]any)
	require.NotEmpty(t, meta["imageWarning"])
	require.Empty(t, api.books.books, "record removed despite cover failure")
}

func TestDeleteForeignBookForbidden(t *testing.T) {
	api := newTestAPI(t)
	owner := api.registerAndLogin(t, "ursula", "ursula@example.com")
	other := api.registerAndLogin(t, "mary", "mary@example.com")

	w := api.doJSON(http.MethodPost, "/api/books", owner, gin.H{
		"title": "Frankenstein", "description": "d", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["data"].(map[string]any)["id"].(string)

	w = api.doJSON(http.MethodDelete, "/api/books/"+id, other, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerAndLogin(t, "ursula", "ursula@example.com")

	w := api.doJSON(http.MethodGet, "/api/books/search", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Without an index configured a valid query yields an empty result set.
	w = api.doJSON(http.MethodGet, "/api/books/search?q=frankenstein", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

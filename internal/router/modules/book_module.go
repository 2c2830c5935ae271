package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	handlers "github.com/bookwormhq/bookworm-api/internal/interface/http"
	"github.com/bookwormhq/bookworm-api/internal/interface/middleware"
	"github.com/bookwormhq/bookworm-api/pkg/helpers"
)

// BookModule wires the catalog routes.
// Public: GET /api/books, GET /api/books/:id
// Protected: POST /api/books, GET /api/books/user, GET /api/books/search, DELETE /api/books/:id

type BookModule struct {
	Handler *handlers.BookHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewBookModule(h *handlers.BookHandler, users repo.UserRepository, jwt *helpers.JWTManager) *BookModule {
	return &BookModule{Handler: h, Users: users, JWT: jwt}
}

func (m *BookModule) Register(rg *gin.RouterGroup) {
	rg.GET("/books", m.Handler.List)

	auth := middleware.Auth(m.Users, m.JWT)
	// Static segments before the :id wildcard so gin routes them first.
	rg.GET("/books/user", auth, m.Handler.ListMine)
	rg.GET("/books/search", auth, m.Handler.Search)
	rg.POST("/books", auth, m.Handler.Create)

	rg.GET("/books/:id", m.Handler.Get)
	rg.DELETE("/books/:id", auth, m.Handler.Delete)
}

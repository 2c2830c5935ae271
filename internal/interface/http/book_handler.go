package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bookwormhq/bookworm-api/internal/application"
	"github.com/bookwormhq/bookworm-api/internal/interface/middleware"
	"github.com/bookwormhq/bookworm-api/internal/upload"
	"github.com/bookwormhq/bookworm-api/pkg/response"
	"github.com/bookwormhq/bookworm-api/pkg/validation"
)

type BookHandler struct {
	Svc    *application.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *application.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

type createBookJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rating      int    `json:"rating"`
	// Image is either a data URI or raw base64; ImageType declares the MIME
	// type for the raw form.
	Image     string `json:"image"`
	ImageType string `json:"imageType"`
}

func (h *BookHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).Error("book request failed")
	}
	response.Error[any](c, status, err.Error(), nil)
}

// Create POST /api/books — accepts multipart form (file field "image") or
// JSON with a base64 image payload.
func (h *BookHandler) Create(c *gin.Context) {
	var in application.CreateBookInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.Title = c.PostForm("title")
		in.Description = c.PostForm("description")
		if r := c.PostForm("rating"); r != "" {
			rating, err := strconv.Atoi(r)
			if err != nil {
				response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"rating": "must be a number"})
				return
			}
			in.Rating = rating
		}
		if fh, err := c.FormFile("image"); err == nil {
			in.Image = upload.FromMultipart(fh)
		}
	} else {
		var req createBookJSON
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		in.Title = req.Title
		in.Description = req.Description
		in.Rating = req.Rating
		in.Image = upload.FromBase64(req.Image, req.ImageType)
	}

	book, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book, "book created", nil)
}

func pageParams(c *gin.Context) (page, limit int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

// List GET /api/books
func (h *BookHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.Svc.List(c.Request.Context(), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "books", nil)
}

// ListMine GET /api/books/user — same shape as List, filtered to the caller.
func (h *BookHandler) ListMine(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.Svc.ListByOwner(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "books", nil)
}

// Get GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, book, "book", nil)
}

// Delete DELETE /api/books/:id — the record is removed even when the remote
// cover deletion fails; that failure is reported in the response meta.
func (h *BookHandler) Delete(c *gin.Context) {
	warning, err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var meta interface{}
	if warning != "" {
		meta = map[string]string{"imageWarning": warning}
	}
	response.Success[any](c, http.StatusOK, map[string]bool{"deleted": true}, "book deleted successfully", meta)
}

// Search GET /api/books/search?q=&size=
func (h *BookHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

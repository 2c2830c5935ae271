package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bookwormhq/bookworm-api/internal/application"
	"github.com/bookwormhq/bookworm-api/pkg/response"
	"github.com/bookwormhq/bookworm-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	UserName string `json:"userName" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError && h.Logger != nil {
			h.Logger.WithError(err).Error("register failed")
		}
		response.Error[any](c, status, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, res, "registration successful", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError && h.Logger != nil {
			h.Logger.WithError(err).Error("login failed")
		}
		response.Error[any](c, status, err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

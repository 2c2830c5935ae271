package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/pkg/helpers"
	"github.com/bookwormhq/bookworm-api/pkg/mailer"
)

// AuthService handles registration, login, and token issuance.
// Pub is optional; when wired, registration enqueues a welcome email.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Pub: pub, Logger: logger}
}

// AuthResult is the payload returned after a successful register or login.
type AuthResult struct {
	Token   string       `json:"token"`
	Expires time.Time    `json:"expiresAt"`
	User    *entity.User `json:"user"`
}

// Register creates a user with a hashed password and issues a token.
// Uniqueness is checked up front; a concurrent duplicate loses the race at
// the unique index and surfaces as ErrConflict, never a silent overwrite.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.Repo.GetByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup existing user: %w", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Username: username, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	if s.Pub != nil {
		if pErr := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Email, u.Username)); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("email", u.Email).Warn("welcome email enqueue failed")
		}
	}
	return res, nil
}

// Login validates credentials. Unknown email and wrong password produce the
// same ErrInvalidCredentials so neither case is distinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, Expires: exp, User: u}, nil
}

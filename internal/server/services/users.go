// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and session token issuing.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/server/auth"
	"github.com/mapsketch/mapsketch/internal/server/config"
	"github.com/mapsketch/mapsketch/internal/server/models"
	"github.com/mapsketch/mapsketch/internal/server/repositories/repomanager"
)

// Session is what a successful registration or login yields.
type Session struct {
	Token    string
	Username string
	Role     string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{db: db, repomanager: m, config: cfg}
}

// Register creates an account and starts a session. The configured admin
// username is granted the admin role at registration time.
func (s *UserService) Register(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	role := models.RoleUser
	if s.config.AdminUsername != "" && username == s.config.AdminUsername {
		role = models.RoleAdmin
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.newSession(user)
}

// Login verifies credentials and starts a session. A missing user and a
// wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Verify validates a session token and returns the claims it carries.
func (s *UserService) Verify(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, []byte(s.config.SecretKey))
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.UserName, user.Role,
		[]byte(s.config.SecretKey), s.config.TokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &Session{Token: token, Username: user.UserName, Role: user.Role}, nil
}

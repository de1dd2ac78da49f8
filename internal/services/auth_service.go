package services

import (
	"context"
	"errors"
	"fmt"

	"socialai/internal/models"
	"socialai/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionIssuer signs and revokes session tokens.
type SessionIssuer interface {
	Issue(p *models.Principal) (models.SessionToken, error)
	Revoke(ctx context.Context, raw string) error
}

// AuthService handles password login and logout.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, models.SessionToken, error)
	Logout(ctx context.Context, rawToken string) error
}

type authService struct {
	userRepo repositories.UserRepository
	sessions SessionIssuer
	log      *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, sessions SessionIssuer, log *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, sessions: sessions, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, models.SessionToken, error) {
	if email == "" || password == "" {
		return nil, models.SessionToken{}, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.SessionToken{}, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, models.SessionToken{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.String("user_id", user.ID.String()))
		return nil, models.SessionToken{}, models.ErrUnauthenticated
	}

	token, err := s.sessions.Issue(user.Principal())
	if err != nil {
		return nil, models.SessionToken{}, err
	}
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, rawToken string) error {
	if err := s.sessions.Revoke(ctx, rawToken); err != nil {
		s.log.Warn("session revocation failed", zap.Error(err))
		return err
	}
	return nil
}

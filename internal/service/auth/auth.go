package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMaxSessions        = errors.New("maximum sessions reached, log out from another device")
	ErrSessionInvalid     = errors.New("session is invalid or expired")
)

// Service issues and checks session tokens. Each user holds at most a
// fixed number of concurrently active sessions; expired sessions do
// not count against the cap.
type Service struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	ttl        time.Duration
	max        int
	bcryptCost int
	logger     *logger.Logger
}

func NewService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	ttl time.Duration,
	max int,
	bcryptCost int,
	l *logger.Logger,
) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if max <= 0 {
		max = 3
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		ttl:        ttl,
		max:        max,
		bcryptCost: bcryptCost,
		logger:     l,
	}
}

// Register creates an account. Emails are unique, case-insensitive.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if existing, err := s.users.UserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", logger.String("user", u.ID))
	return u, nil
}

// Login checks credentials and issues a session token. The login is
// rejected when the user already holds the maximum number of active
// sessions.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, *models.User, error) {
	email = normalizeEmail(email)

	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	active, err := s.sessions.ActiveSessions(ctx, u.ID, now)
	if err != nil {
		return nil, nil, err
	}
	if len(active) >= s.max {
		return nil, nil, ErrMaxSessions
	}

	sess := &models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, nil, err
	}

	s.logger.Info("session issued", logger.String("user", u.ID))
	return sess, u, nil
}

// Logout revokes a session token. Revoking an unknown token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	sess, err := s.sessions.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Expired(time.Now().UTC()) {
		return nil, ErrSessionInvalid
	}
	u, err := s.users.UserByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrSessionInvalid
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

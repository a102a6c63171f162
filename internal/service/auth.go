package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookmark-site/bookmark-site/internal/db"
	"github.com/bookmark-site/bookmark-site/internal/repository"
	"github.com/bookmark-site/bookmark-site/internal/session"
)

const (
	minUsernameLen = 6
	minPasswordLen = 10
)

// UserStore is the credential persistence needed by Auth.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*db.User, error)
	ByUsername(ctx context.Context, username string) (*db.User, error)
	ByID(ctx context.Context, id uint64) (*db.User, error)
}

// Auth verifies credentials and owns the session lifecycle. A session
// is either absent or bound to exactly one user id.
type Auth struct {
	users    UserStore
	sessions session.Store
	logger   *zap.SugaredLogger
}

func NewAuth(users UserStore, sessions session.Store, l *zap.SugaredLogger) *Auth {
	return &Auth{
		users:    users,
		sessions: sessions,
		logger:   l,
	}
}

// SignUp creates the account and starts a session for it. The raw
// password is never stored, only its bcrypt hash.
func (s *Auth) SignUp(ctx context.Context, username, password string) (string, error) {
	if len(username) < minUsernameLen || len(password) < minPasswordLen {
		return "", ErrValidation
	}

	_, err := s.users.ByUsername(ctx, username)
	if err == nil {
		return "", ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", errors.Wrap(err, "look up username")
	}

	hash, err := s.bcryptGen(password)
	if err != nil {
		return "", errors.Wrap(err, "bcryptGen")
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return "", errors.Wrap(err, "create user")
	}

	return s.startSession(ctx, user.ID)
}

func (s *Auth) LogIn(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, "look up username")
	}

	if err := s.bcryptCheck(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.startSession(ctx, user.ID)
}

// LogOut destroys the session. Destroying an absent session is fine.
func (s *Auth) LogOut(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve returns the user id bound to the token, or ErrUnauthenticated.
func (s *Auth) Resolve(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	userID, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return 0, errors.Wrap(err, "get session")
	}
	if !ok {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

func (s *Auth) startSession(ctx context.Context, userID uint64) (string, error) {
	token := uuid.New().String()
	if err := s.sessions.Put(ctx, token, userID); err != nil {
		return "", errors.Wrap(err, "put session")
	}
	return token, nil
}

func (s *Auth) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func (s *Auth) bcryptCheck(hash, pass string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}

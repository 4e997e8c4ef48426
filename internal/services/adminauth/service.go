package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EricSteeles/Curb-Alert/internal/domain/model"
	redrepo "github.com/EricSteeles/Curb-Alert/internal/repo/redis"
)

const adminUsername = "admin"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrUnavailable    = errors.New("admin auth is unavailable")
)

type SessionStore interface {
	Create(ctx context.Context, session model.AdminSession) error
	Get(ctx context.Context, sid string) (model.AdminSession, error)
	Delete(ctx context.Context, sid string) error
}

type Service struct {
	password   []byte
	secret     []byte
	sessions   SessionStore
	sessionTTL time.Duration
	configured bool
	now        func() time.Time
}

type LoginResult struct {
	AccessToken string
	Session     model.AdminSession
}

type tokenClaims struct {
	Username string `json:"username"`
	SID      string `json:"sid"`
	jwt.RegisteredClaims
}

func NewService(password, jwtSecret string, sessionTTL time.Duration, sessions SessionStore) *Service {
	password = strings.TrimSpace(password)
	secret := strings.TrimSpace(jwtSecret)
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	return &Service{
		password:   []byte(password),
		secret:     []byte(secret),
		sessions:   sessions,
		sessionTTL: sessionTTL,
		configured: password != "" && secret != "" && sessions != nil,
		now:        time.Now,
	}
}

func (s *Service) IsConfigured() bool {
	return s != nil && s.configured
}

// Login checks the shared admin password and opens a session.
func (s *Service) Login(ctx context.Context, password string) (LoginResult, error) {
	if !s.IsConfigured() {
		return LoginResult{}, ErrUnavailable
	}

	if subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return LoginResult{}, ErrUnauthorized
	}

	now := s.now().UTC()
	session := model.AdminSession{
		SID:       uuid.NewString(),
		Username:  adminUsername,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("create admin session: %w", err)
	}

	token, err := s.sign(session, now)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{AccessToken: token, Session: session}, nil
}

// Validate checks the token signature and confirms the session is still live
// in the store, so logout takes effect before the token expires.
func (s *Service) Validate(ctx context.Context, accessToken string) (model.AdminSession, error) {
	if !s.IsConfigured() {
		return model.AdminSession{}, ErrUnavailable
	}

	claims, err := s.parse(accessToken)
	if err != nil {
		return model.AdminSession{}, ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, redrepo.ErrSessionNotFound) {
			return model.AdminSession{}, ErrSessionExpired
		}
		return model.AdminSession{}, fmt.Errorf("get admin session: %w", err)
	}

	if !session.Valid(s.now().UTC()) {
		return model.AdminSession{}, ErrSessionExpired
	}

	return session, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if !s.IsConfigured() {
		return ErrUnavailable
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}

	return nil
}

func (s *Service) sign(session model.AdminSession, now time.Time) (string, error) {
	claims := tokenClaims{
		Username: session.Username,
		SID:      session.SID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}

	return token, nil
}

func (s *Service) parse(accessToken string) (tokenClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return tokenClaims{}, ErrUnauthorized
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || strings.TrimSpace(claims.SID) == "" {
		return tokenClaims{}, ErrUnauthorized
	}

	return *claims, nil
}

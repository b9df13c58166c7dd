// Package auth holds the AtlasERP sign-in service.
//
// Authentication is a placeholder: any non-blank username and password pair
// is accepted and no credential is verified. The Service owns the single
// current session; callers hold the Service and pass it where needed.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/atlaserp/atlas/internal/logger"
	"github.com/atlaserp/atlas/internal/telemetry"
	"github.com/atlaserp/atlas/internal/user"
)

// ErrInvalidCredentials is returned for a blank username or password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrNoSession is returned by CheckSession when nobody is signed in.
var ErrNoSession = errors.New("no active session")

// AdminUsername is the login name that receives the admin role.
const AdminUsername = "admin"

// Session is the state of one successful sign-in.
type Session struct {
	User      *user.User
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Options configures a Service.
type Options struct {
	// Secret signs session tokens. A random key is generated when empty.
	Secret []byte

	// TTL is the session token lifetime.
	TTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service tracks the current user in memory.
type Service struct {
	mu      sync.RWMutex
	session *Session

	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a signed-out service.
func NewService(opts Options) (*Service, error) {
	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		secret: secret,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Authenticate signs in username. Both values must be non-empty after
// trimming whitespace, otherwise ErrInvalidCredentials is returned and the
// current session is left untouched. On success a fresh user record
// replaces any previous session. The username is stored, matched against
// AdminUsername and used for the email exactly as given.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	lggr := logger.FromContext(ctx)

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.ResultFailure).Inc()
		lggr.Infow("sign-in rejected", "reason", "blank credentials")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	u := &user.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       user.EmailFor(username),
		FirstName:   username,
		LastName:    "User",
		Role:        roleFor(username),
		Active:      true,
		CreatedAt:   now,
		LastLoginAt: &now,
	}

	token, expires, err := s.issueToken(u, now)
	if err != nil {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.ResultFailure).Inc()
		return nil, err
	}

	s.mu.Lock()
	s.session = &Session{User: u, Token: token, IssuedAt: now, ExpiresAt: expires}
	s.mu.Unlock()

	telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.ResultSuccess).Inc()
	lggr.Infow("signed in", "user", u.Username, "role", u.Role)
	return u, nil
}

// roleFor compares case-insensitively. A Caser is stateful, so one is
// created per call.
func roleFor(username string) string {
	if cases.Fold().String(username) == AdminUsername {
		return user.RoleAdmin
	}
	return user.RoleUser
}

// Logout clears the current session. It never fails.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.session
	s.session = nil
	s.mu.Unlock()

	if prev != nil {
		logger.FromContext(ctx).Infow("signed out", "user", prev.User.Username)
	}
}

// CurrentUser returns the signed-in user, if any.
func (s *Service) CurrentUser() (*user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, false
	}
	return s.session.User, true
}

// IsAuthenticated reports whether a user is signed in.
func (s *Service) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// Session returns a copy of the current session.
func (s *Service) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// CheckSession verifies the current session token. A session whose token
// no longer verifies (for example because it expired) is cleared and the
// verification error is returned.
func (s *Service) CheckSession(ctx context.Context) error {
	sess, ok := s.Session()
	if !ok {
		return ErrNoSession
	}
	if _, err := s.VerifyToken(sess.Token); err != nil {
		s.mu.Lock()
		if s.session != nil && s.session.Token == sess.Token {
			s.session = nil
		}
		s.mu.Unlock()
		logger.FromContext(ctx).Infow("session ended", "user", sess.User.Username, "error", err)
		return err
	}
	return nil
}

// Package session gates the API behind the farm password.
//
// A Manager issues opaque tokens after a successful login and keeps them in
// memory until they expire or are revoked. When no password is configured
// the manager runs in demo mode and every request is admitted.
package session

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cerditos-farm/cerditos/internal/domain"
	"github.com/cerditos-farm/cerditos/internal/infra/observability"
)

// DefaultTTL is how long a session lives when none is configured.
const DefaultTTL = 12 * time.Hour

// DemoToken identifies the implicit session handed out in demo mode.
const DemoToken = "demo"

// Session is an authenticated caller.
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Demo      bool      `json:"demo,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Manager issues and validates sessions. Safe for concurrent use.
type Manager struct {
	password string
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewManager creates a session manager. An empty password enables demo mode.
func NewManager(password string, ttl time.Duration, log *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		password: password,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// SetClock overrides the time source (tests).
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// DemoMode reports whether the gate is open.
func (m *Manager) DemoMode() bool { return m.password == "" }

// Login checks password and issues a new session.
func (m *Manager) Login(password string) (Session, error) {
	now := m.now()
	if m.DemoMode() {
		observability.LoginAttempts.WithLabelValues("demo").Inc()
		return m.demoSession(now), nil
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) != 1 {
		observability.LoginAttempts.WithLabelValues("rejected").Inc()
		m.log.Warn("login rejected")
		return Session{}, domain.ErrWrongPassword
	}

	s := Session{
		Token:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[s.Token] = s
	observability.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	observability.LoginAttempts.WithLabelValues("accepted").Inc()
	m.log.Info("session issued", zap.Time("expires_at", s.ExpiresAt))
	return s, nil
}

// Validate returns the live session for token.
func (m *Manager) Validate(token string) (Session, error) {
	now := m.now()
	if m.DemoMode() {
		return m.demoSession(now), nil
	}
	if token == "" {
		return Session{}, domain.ErrUnauthorized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, domain.ErrUnauthorized
	}
	if s.Expired(now) {
		delete(m.sessions, token)
		observability.ActiveSessions.Set(float64(len(m.sessions)))
		return Session{}, domain.ErrSessionExpired
	}
	return s, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		observability.ActiveSessions.Set(float64(len(m.sessions)))
		m.log.Info("session revoked")
	}
}

// Active returns the number of unexpired sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(m.now())
	return len(m.sessions)
}

func (m *Manager) demoSession(now time.Time) Session {
	return Session{Token: DemoToken, IssuedAt: now, ExpiresAt: now.Add(m.ttl), Demo: true}
}

func (m *Manager) pruneLocked(now time.Time) {
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
		}
	}
	observability.ActiveSessions.Set(float64(len(m.sessions)))
}

// ─── Context ────────────────────────────────────────────────────────────────

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the session attached by the auth middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

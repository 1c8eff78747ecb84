package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

func TestLoginAndValidate(t *testing.T) {
	m := NewManager("s3cret", time.Hour, nil)

	_, err := m.Login("wrong")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	s, err := m.Login("s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.False(t, s.Demo)

	got, err := m.Validate(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = m.Validate("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExpiry(t *testing.T) {
	now := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	m := NewManager("pw", 30*time.Minute, nil)
	m.SetClock(func() time.Time { return now })

	s, err := m.Login("pw")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Active())

	now = now.Add(30 * time.Minute)
	_, err = m.Validate(s.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 0, m.Active())
}

func TestLogout(t *testing.T) {
	m := NewManager("pw", 0, nil)

	s, err := m.Login("pw")
	require.NoError(t, err)
	m.Logout(s.Token)
	m.Logout(s.Token)

	_, err = m.Validate(s.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDemoMode(t *testing.T) {
	m := NewManager("", time.Hour, nil)
	assert.True(t, m.DemoMode())

	s, err := m.Login("anything")
	require.NoError(t, err)
	assert.True(t, s.Demo)

	got, err := m.Validate("")
	require.NoError(t, err)
	assert.Equal(t, DemoToken, got.Token)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{Token: "abc"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", s.Token)
}

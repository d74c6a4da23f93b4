package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/infrastructure/sessionstore"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

func newTestSessionManager(now time.Time) *SessionManager {
	m := NewSessionManager("segredo-de-teste", time.Hour, sessionstore.NewMemoryStore())
	m.now = func() time.Time { return now }
	return m
}

func TestSessionManager_IssueAndValidate(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := newTestSessionManager(now)

	user := &domain.User{ID: 7, Name: "Ana", Email: "ana@loja.com", Active: true, RoleID: domain.RoleManager, StoreIDs: []string{"st1"}}
	session, err := m.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, now.Add(time.Hour), session.ExpiresAt)

	validated, err := m.Validate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, validated.ID)
	assert.Equal(t, 7, validated.UserID())
	assert.Equal(t, domain.RoleManager, validated.RoleID())
	assert.True(t, validated.CanAccessStore("st1"))
	assert.False(t, validated.CanAccessStore("st2"))
}

func TestSessionManager_Validate_Errors(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := newTestSessionManager(now)
	session, err := m.Issue(&domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
	require.NoError(t, err)

	t.Run("token malformado", func(t *testing.T) {
		_, err := m.Validate(context.Background(), "abc.def.ghi")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("assinatura de outro segredo", func(t *testing.T) {
		other := NewSessionManager("outro", time.Hour, sessionstore.NewMemoryStore())
		_, err := other.Validate(context.Background(), session.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token expirado", func(t *testing.T) {
		m.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { m.now = func() time.Time { return now } }()

		_, err := m.Validate(context.Background(), session.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)

		var authErr *AuthError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, apiErrors.ErrExpiredToken, authErr.Code)
	})
}

func TestSessionManager_RevokeAndRefresh(t *testing.T) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)
	m := newTestSessionManager(now)
	user := &domain.User{ID: 3, RoleID: domain.RoleViewer, Active: true}

	first, err := m.Issue(user)
	require.NoError(t, err)

	user.RoleID = domain.RoleManager
	second, err := m.Refresh(ctx, first, user)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = m.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	validated, err := m.Validate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, validated.RoleID())

	require.NoError(t, m.Revoke(ctx, validated))
	_, err = m.Validate(ctx, second.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	assert.ErrorIs(t, m.Revoke(ctx, nil), ErrInvalidToken)
}

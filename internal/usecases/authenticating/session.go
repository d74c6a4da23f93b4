package authenticating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vfg2006/sales-analytics-api/infrastructure/sessionstore"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

const defaultSessionTTL = 24 * time.Hour

// SessionManager é o único responsável por emitir, validar, renovar e encerrar sessões
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	store  sessionstore.SessionStore
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, store sessionstore.SessionStore) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

// Issue cria uma nova sessão para o usuário; o ID da sessão vai no jti do token
func (m *SessionManager) Issue(user *domain.User) (*domain.Session, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	sessionID := uuid.NewString()

	claims := &domain.Claims{
		UserID:        user.ID,
		UserName:      user.Name,
		UserLastname:  user.Lastname,
		UserEmail:     user.Email,
		UserActive:    user.Active,
		UserRoleID:    user.RoleID,
		UserAvatarURL: user.AvatarURL,
		UserStoreIDs:  user.StoreIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:        sessionID,
		Token:     token,
		ExpiresAt: expiresAt,
		Claims:    claims,
	}, nil
}

// Validate confere assinatura, expiração e se a sessão não foi encerrada
func (m *SessionManager) Validate(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.ID == "" {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	revoked, err := m.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, NewUserAuthError(ErrSessionRevoked, apiErrors.ErrSessionRevoked, claims.UserID, "")
	}

	session := &domain.Session{
		ID:     claims.ID,
		Token:  tokenString,
		Claims: claims,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Refresh emite uma nova sessão com os dados atuais do usuário e encerra a anterior
func (m *SessionManager) Refresh(ctx context.Context, current *domain.Session, user *domain.User) (*domain.Session, error) {
	next, err := m.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := m.Revoke(ctx, current); err != nil {
		return nil, err
	}
	return next, nil
}

// Revoke encerra a sessão até a expiração original do token
func (m *SessionManager) Revoke(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "sessão ausente")
	}
	return m.store.Revoke(ctx, session.ID, session.ExpiresAt)
}

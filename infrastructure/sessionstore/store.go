// Package sessionstore guarda os identificadores de sessões revogadas até expirarem
package sessionstore

import (
	"context"
	"time"
)

type SessionStore interface {
	// Revoke marca a sessão como encerrada até expiresAt
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

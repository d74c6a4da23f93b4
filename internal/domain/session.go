package domain

import (
	"slices"
	"time"
)

// Session é a identidade autenticada de uma requisição. É criada no login,
// renovada e encerrada apenas pelo gerenciador de sessões, e repassada
// explicitamente aos serviços que precisam saber quem está chamando.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Claims    *Claims   `json:"-"`
}

func (s *Session) UserID() int {
	if s == nil || s.Claims == nil {
		return 0
	}
	return s.Claims.UserID
}

func (s *Session) RoleID() int {
	if s == nil || s.Claims == nil {
		return 0
	}
	return s.Claims.UserRoleID
}

func (s *Session) IsAdmin() bool {
	return s.RoleID() == RoleAdmin
}

// CanWrite indica se a sessão pode alterar vendas e cadastros
func (s *Session) CanWrite() bool {
	role := s.RoleID()
	return role == RoleAdmin || role == RoleManager
}

// restricted indica se a sessão só enxerga algumas lojas
func (s *Session) restricted() bool {
	return !s.IsAdmin() && s.Claims != nil && len(s.Claims.UserStoreIDs) > 0
}

// CanAccessStore verifica se a loja está no escopo da sessão
func (s *Session) CanAccessStore(storeID string) bool {
	if s == nil || s.Claims == nil {
		return false
	}
	if !s.restricted() {
		return true
	}
	return slices.Contains(s.Claims.UserStoreIDs, storeID)
}

// ScopeStores restringe o filtro de lojas ao escopo da sessão. Sem filtro pedido,
// devolve as lojas permitidas (nil = todas). Devolve false se alguma loja pedida
// estiver fora do escopo.
func (s *Session) ScopeStores(requested []string) ([]string, bool) {
	if s == nil || s.Claims == nil {
		return nil, false
	}
	if !s.restricted() {
		return requested, true
	}
	if len(requested) == 0 {
		return slices.Clone(s.Claims.UserStoreIDs), true
	}
	for _, id := range requested {
		if !slices.Contains(s.Claims.UserStoreIDs, id) {
			return nil, false
		}
	}
	return requested, true
}

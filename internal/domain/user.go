package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = 1
	RoleManager = 2
	RoleViewer  = 3
)

// ValidRole indica se o papel é conhecido
func ValidRole(roleID int) bool {
	return roleID == RoleAdmin || roleID == RoleManager || roleID == RoleViewer
}

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	RoleID       int        `json:"role_id"`
	AvatarURL    *string    `json:"avatar_url"`
	Deleted      bool       `json:"deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	// Lojas que o usuário pode consultar; vazio significa todas
	StoreIDs  []string  `json:"store_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID        int       `json:"id"`
	Name      *string   `json:"name"`
	Lastname  *string   `json:"lastname"`
	Email     *string   `json:"email"`
	Active    *bool     `json:"active"`
	RoleID    *int      `json:"role_id"`
	AvatarURL *string   `json:"avatar_url"`
	Deleted   *bool     `json:"deleted"`
	StoreIDs  *[]string `json:"store_ids"`
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	Lastname string   `json:"lastname"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	RoleID   int      `json:"role_id"`
	StoreIDs []string `json:"store_ids"`
}

type Claims struct {
	UserID        int
	UserName      string
	UserLastname  string
	UserEmail     string
	UserActive    bool
	UserRoleID    int
	UserAvatarURL *string
	UserStoreIDs  []string
	jwt.RegisteredClaims
}

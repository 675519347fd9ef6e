package domain

import (
	"context"
	"time"
)

// Role codes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, createdAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// Role represents an application role (user, admin).
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// AuthClaims is what a verified token says about its bearer.
type AuthClaims struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the claims carry the given role code.
func (c *AuthClaims) HasRole(code string) bool {
	for _, r := range c.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// LoginCode is a stored one-time login code.
type LoginCode struct {
	ID        string
	Email     string
	CodeHash  string
	ExpiresAt time.Time
}

// CodeHasher hashes and verifies one-time login codes.
type CodeHasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*AuthClaims, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, ids []string, params PaginationParams) ([]*User, int, error)
	Delete(ctx context.Context, id string) error
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository reads roles and their assignment to users.
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// LoginCodeRepository defines the interface for one-time login code storage.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	ListActiveByEmail(ctx context.Context, email string) ([]*LoginCode, error)
	Delete(ctx context.Context, id string) error
}

// UserService covers passwordless login and admin user management.
type UserService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (token string, user *User, err error)
	Create(ctx context.Context, email, name string) (*User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, ids []string, params PaginationParams) ([]*User, int, error)
}

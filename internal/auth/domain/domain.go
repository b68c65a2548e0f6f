// Package domain is the opaque authentication boundary: session tokens in,
// caller identity out. Login and account management live outside this
// service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
)

type User struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Email       string       `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string       `gorm:"type:text;not null"`
	Role        Role         `gorm:"type:text;not null;default:'owner'"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// UserEstablishment links an owner to the establishments they manage.
type UserEstablishment struct {
	UserID          snowflake.ID `gorm:"primaryKey"`
	EstablishmentID snowflake.ID `gorm:"primaryKey"`
}

// TableName sets the database table name.
func (UserEstablishment) TableName() string { return "user_establishments" }

// Session stores only the hash of the opaque token handed to the client.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"not null;index"`
	TokenHash string       `gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt time.Time    `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Identity is the authenticated caller. EstablishmentSlugs is nil for
// super admins, meaning unrestricted.
type Identity struct {
	UserID             snowflake.ID
	Role               Role
	EstablishmentSlugs []string
}

func (i Identity) IsSuperAdmin() bool { return i.Role == RoleSuperAdmin }

type Service interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)

	// IssueSession creates a session and returns the raw token. Used by
	// the out-of-scope login flow and by seed tooling.
	IssueSession(ctx context.Context, userID snowflake.ID) (string, error)
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrSessionExpired  = errors.New("session_expired")
)

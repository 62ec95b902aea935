package core

import (
	"context"
	"time"
)

// User user model
type User struct {
	ID          int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	Address     string    `sql:"size:42;UNIQUE_INDEX:idx_users_address" json:"address,omitempty"`
	Name        string    `sql:"size:64" json:"name,omitempty"`
	AccessToken string    `sql:"size:128;INDEX:idx_users_token" json:"-"`
}

// UserStore user store interface
type UserStore interface {
	Create(ctx context.Context, user *User) error
	Find(ctx context.Context, id int64) (*User, error)
	FindByAddress(ctx context.Context, address string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
	UpdateToken(ctx context.Context, user *User, token string) error
}

// UserService user service interface
type UserService interface {
	// Login verifies the signed challenge and returns the user bound to
	// the recovered address, creating one when none exists yet.
	Login(ctx context.Context, requestID, signature, address string) (*User, error)
	// Auth resolves a bearer access token to a user
	Auth(ctx context.Context, accessToken string) (*User, error)
}

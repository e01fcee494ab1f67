package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the durable account record owned by the persistent store.
// It is created on first successful reconciliation for an email and never
// deleted by this core.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	Image           string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user's email has ever been verified.
func (u User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

// UserStore is the boundary to the persistent user store. The store must
// enforce email uniqueness; any storage technology satisfying this interface
// is substitutable.
//
// Lookup methods return ErrUserNotFound for missing rows. CreateUser returns
// ErrEmailTaken when a concurrent writer won the race for the same email.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
}

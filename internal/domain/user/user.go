package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// User is the single persisted entity. PasswordHash never leaves the
// process: it is excluded from JSON and from every API response DTO.
type User struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Address           string    `json:"address"`
	Bio               string    `json:"bio"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateFields carries a partial update. Nil means "leave untouched";
// a non-nil pointer to an empty string clears the field. The bio
// clear-vs-ignore distinction depends on this.
type UpdateFields struct {
	Name              *string
	Address           *string
	Bio               *string
	ProfilePictureURL *string
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error)
}

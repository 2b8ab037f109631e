package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/davitran/profile-hub/internal/domain/user"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	ID          uuid.UUID `json:"id"`
	AccessToken string    `json:"accessToken"`
	Message     string    `json:"message"`
}

// UserDTO is the outward shape of a user. There is deliberately no
// password field here.
type UserDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Address           string    `json:"address"`
	Bio               string    `json:"bio"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Address:           u.Address,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

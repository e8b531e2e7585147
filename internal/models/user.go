package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a platform member. TokenIdentifier is the identity provider's stable subject
// and never changes once the record exists.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TokenIdentifier string    `json:"-" gorm:"uniqueIndex;not null"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Username        *string   `json:"username" gorm:"uniqueIndex;size:20"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserCompact is the public projection of a user
type UserCompact struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Username *string `json:"username"`
	ImageURL string  `json:"image_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		ImageURL: u.ImageURL,
	}
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=20,username"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// IdentityClaims are the claims of a locally signed identity token (auth.provider=jwt).
// The subject carries the token identifier.
type IdentityClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

package domain

import (
	"time"

	"github.com/aussiebroadwan/forum/pkg/jwtx"
)

// User is a stored account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the user onto the claims carried by tokens.
func (u User) Identity() jwtx.Identity {
	return jwtx.Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

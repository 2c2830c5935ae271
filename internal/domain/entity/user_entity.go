package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash; plaintext never crosses the repository
// boundary and the field is excluded from JSON output.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"userName"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

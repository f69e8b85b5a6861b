package models

import "time"

// Role values. An admin is a role on User, not a separate account type.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account holder. HashedPassword is never serialized.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"-"`
	FullName        string    `gorm:"size:255;not null" json:"fullName"`
	Email           string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role            string    `gorm:"size:16;not null;default:user" json:"role"`
	HashedPassword  []byte    `gorm:"not null" json:"-"`
	ProfileImageURL string    `gorm:"size:512" json:"profileImageUrl,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

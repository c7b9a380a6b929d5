package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Username        string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password        string    `json:"-"`                                           // bcrypt hash, empty for OAuth-only accounts
	Email           *string   `gorm:"uniqueIndex;size:255" json:"email"`           // Optional
	GithubID        *string   `gorm:"uniqueIndex;size:64" json:"-"`                // GitHub account id
	Role            string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	IsPremium       bool      `gorm:"default:false;not null" json:"isPremium"`
	Bio             string    `gorm:"size:500" json:"bio"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	// No DeletedAt, users are never removed
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

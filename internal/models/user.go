package models

import (
	"time"
)

// User is the owner of a wardrobe. Accounts are created on first request
// for a username; everything beyond the gamification columns belongs to the
// auth layer.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"uniqueIndex;not null;size:255" json:"username"`
	FullName      string     `gorm:"size:255" json:"full_name"`
	AvatarURL     string     `gorm:"type:text" json:"avatar_url"`
	XP            int        `gorm:"not null;default:0" json:"xp"`
	IsPremium     bool       `gorm:"not null;default:false" json:"is_premium"`
	PremiumExpiry *time.Time `json:"premium_expiry"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// PremiumAt reports whether the user had an active premium plan at t.
func (u *User) PremiumAt(t time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiry == nil || t.Before(*u.PremiumExpiry)
}

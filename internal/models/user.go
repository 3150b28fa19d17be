package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"uniqueIndex"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	Password     []byte `json:"-"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role" gorm:"default:volunteer"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	IsVerified   bool   `json:"is_verified"`
	DiscordID    string `json:"-" gorm:"index"` // set when the account is linked via Discord login
}

// UserSummary is the public slice of a user embedded in feed items,
// leaderboard entries and populated references.
type UserSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		ProfileImage: u.ProfileImage,
	}
}

package models

import (
	"gorm.io/gorm"
)

// Notification is a user-visible inbox entry: badge awards, admin messages
// and update reminders. It replaces the old practice of smuggling system
// messages through the contact form.
type Notification struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"index"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	RelatedTreeID *uint  `json:"related_tree_id,omitempty"`
	Read          bool   `json:"read" gorm:"index"`
}

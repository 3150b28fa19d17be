package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
	ContactStatusSeen    ContactStatus = "seen"
	ContactStatusClosed  ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusSeen, ContactStatusClosed:
		return true
	}
	return false
}

// Contact is an inquiry submitted through the contact form.
type Contact struct {
	gorm.Model
	UserID        *uint             `json:"user_id,omitempty" gorm:"index"`
	RelatedTreeID *uint             `json:"related_tree_id,omitempty"`
	Name          string            `json:"name"`
	Email         string            `json:"email" gorm:"index"`
	Phone         string            `json:"phone,omitempty"`
	Subject       string            `json:"subject"`
	Message       string            `json:"message"`
	Image         string            `json:"image,omitempty"`
	Status        ContactStatus     `json:"status" gorm:"index;default:new"`
	Responses     []ContactResponse `json:"responses"`
}

type ContactResponse struct {
	gorm.Model
	ContactID     uint      `json:"contact_id" gorm:"index"`
	Message       string    `json:"message"`
	RespondedByID uint      `json:"responded_by_id"`
	RespondedAt   time.Time `json:"responded_at"`
}

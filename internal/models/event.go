package models

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type Event struct {
	gorm.Model
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	EventDate       time.Time   `json:"event_date"`
	Address         string      `json:"address"`
	OrganizerID     uint        `json:"organizer_id"`
	Organizer       User        `json:"organizer" gorm:"foreignKey:OrganizerID"`
	Participants    []User      `json:"participants" gorm:"many2many:event_participants"`
	MaxParticipants int         `json:"max_participants,omitempty"`
	TargetTrees     int         `json:"target_trees,omitempty"`
	ActualTrees     int         `json:"actual_trees"`
	Images          StringList  `json:"images"`
	Status          EventStatus `json:"status" gorm:"index;default:upcoming"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type BadgeType string

const (
	BadgeTreesPlanted     BadgeType = "trees_planted"
	BadgeEventsAttended   BadgeType = "events_attended"
	BadgeUpdatesSubmitted BadgeType = "updates_submitted"
	BadgeSpecial          BadgeType = "special"
)

// BadgeTemplate defines a badge that may be awarded, either automatically
// when a contribution count hits TriggerCount or manually by an admin when
// TriggerCount is nil.
type BadgeTemplate struct {
	gorm.Model
	Name         string    `json:"name" gorm:"uniqueIndex"`
	BadgeType    BadgeType `json:"badge_type" gorm:"index"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	TriggerCount *int      `json:"trigger_count,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"index;default:true"`
	CreatedByID  *uint     `json:"created_by_id,omitempty"`
}

// Achievement records one badge awarded to one user. The composite unique
// index backstops the engine's exactly-once guarantee at the storage level.
type Achievement struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge"`
	BadgeName       string    `json:"badge_name" gorm:"uniqueIndex:idx_user_badge"`
	BadgeType       BadgeType `json:"badge_type"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	EarnedAt        time.Time `json:"earned_at"`
	BadgeTemplateID *uint     `json:"badge_template_id,omitempty"`
	AwardedByID     *uint     `json:"awarded_by_id,omitempty"` // set when manually awarded by an admin
}

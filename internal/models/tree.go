package models

import (
	"time"

	"gorm.io/gorm"
)

type TreeStatus string

const (
	TreeStatusActive  TreeStatus = "active"
	TreeStatusRemoved TreeStatus = "removed"
	TreeStatusDead    TreeStatus = "dead"
)

type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
	HealthDead      Health = "dead"
)

func (h Health) Valid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair, HealthPoor, HealthDead:
		return true
	}
	return false
}

type Tree struct {
	gorm.Model
	TreeCode      string     `json:"tree_code" gorm:"uniqueIndex"`
	PlanterID     uint       `json:"planter_id" gorm:"index"`
	Planter       User       `json:"planter" gorm:"foreignKey:PlanterID"`
	Species       string     `json:"species"`
	CommonName    string     `json:"common_name"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	Address       string     `json:"address"`
	District      string     `json:"district"`
	PlantedDate   time.Time  `json:"planted_date"`
	CurrentHeight float64    `json:"current_height,omitempty"`
	CurrentHealth Health     `json:"current_health" gorm:"default:good"`
	Images        StringList `json:"images"`
	Notes         string     `json:"notes,omitempty"`
	Status        TreeStatus `json:"status" gorm:"index;default:active"`
}

// TreeUpdate is an append-only growth snapshot. Rows are never modified
// after creation.
type TreeUpdate struct {
	gorm.Model
	TreeID      uint       `json:"tree_id" gorm:"index"`
	UpdatedByID uint       `json:"updated_by_id"`
	UpdatedBy   User       `json:"updated_by" gorm:"foreignKey:UpdatedByID"`
	UpdateDate  time.Time  `json:"update_date"`
	Height      float64    `json:"height,omitempty"`
	Health      Health     `json:"health"`
	Images      StringList `json:"images"`
	Notes       string     `json:"notes,omitempty"`
	Issues      StringList `json:"issues,omitempty"`
}

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

type DashboardStatsResponse struct {
	Body struct {
		TotalTrees     int64         `json:"totalTrees"`
		TotalUsers     int64         `json:"totalUsers"`
		TotalEvents    int64         `json:"totalEvents"`
		UpcomingEvents int64         `json:"upcomingEvents"`
		RecentTrees    []models.Tree `json:"recentTrees"`
		CO2Offset      string        `json:"co2Offset"`
	}
}

func (h *StatsHandler) HandleDashboardStats(ctx context.Context, input *struct{}) (*DashboardStatsResponse, error) {
	res := &DashboardStatsResponse{}

	db := h.db.WithContext(ctx)
	if err := db.Model(&models.Tree{}).Where("status = ?", models.TreeStatusActive).Count(&res.Body.TotalTrees).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.User{}).Count(&res.Body.TotalUsers).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Event{}).Count(&res.Body.TotalEvents).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := db.Model(&models.Event{}).Where("status = ?", models.EventStatusUpcoming).Count(&res.Body.UpcomingEvents).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	err := db.
		Preload("Planter").
		Where("status = ?", models.TreeStatusActive).
		Order("created_at DESC").
		Limit(5).
		Find(&res.Body.RecentTrees).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	// rough figure: a mature tree absorbs ~22 kg per year
	res.Body.CO2Offset = fmt.Sprintf("%.1f kg/year", float64(res.Body.TotalTrees)*22)
	return res, nil
}

type WeatherAlert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`
}

type UserStatsRequest struct {
	UserID uint `path:"userId"`
}

type UserStatsResponse struct {
	Body struct {
		TreesPlanted     int64                `json:"treesPlanted"`
		EventsAttended   int64                `json:"eventsAttended"`
		UpdatesSubmitted int64                `json:"updatesSubmitted"`
		Achievements     []models.Achievement `json:"achievements"`
		CO2Offset        string               `json:"co2Offset"`
		WeatherAlert     *WeatherAlert        `json:"weatherAlert,omitempty"`
	}
}

func (h *StatsHandler) HandleUserStats(ctx context.Context, input *UserStatsRequest) (*UserStatsResponse, error) {
	db := h.db.WithContext(ctx)

	var user models.User
	err := db.First(&user, input.UserID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, huma.Error404NotFound("User not found")
	}
	if err != nil {
		return nil, storeUnavailable(err)
	}

	var trees []models.Tree
	err = db.Where("planter_id = ? AND status = ?", user.ID, models.TreeStatusActive).Find(&trees).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res := &UserStatsResponse{}
	res.Body.TreesPlanted = int64(len(trees))

	err = db.Table("event_participants").Where("user_id = ?", user.ID).Count(&res.Body.EventsAttended).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	err = db.Model(&models.TreeUpdate{}).Where("updated_by_id = ?", user.ID).Count(&res.Body.UpdatesSubmitted).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	err = db.Where("user_id = ?", user.ID).Order("earned_at DESC").Find(&res.Body.Achievements).Error
	if err != nil {
		return nil, storeUnavailable(err)
	}

	res.Body.CO2Offset = fmt.Sprintf("%.2f", co2Offset(trees, time.Now()))
	if len(trees) > 0 {
		res.Body.WeatherAlert = seasonalAlert(time.Now())
	}

	return res, nil
}

// co2Offset estimates the total absorption of a set of trees at day
// resolution: young trees (first two years) bind ~5 kg/year, mature ones
// ~22 kg/year.
func co2Offset(trees []models.Tree, now time.Time) float64 {
	const (
		youngRate  = 0.0137 // kg per day, ~5 kg/year
		matureRate = 0.0602 // kg per day, ~22 kg/year
		youngDays  = 2 * 365.25
	)

	total := 0.0
	for _, tree := range trees {
		ageDays := now.Sub(tree.PlantedDate).Hours() / 24
		if ageDays < 0 {
			continue
		}
		if ageDays <= youngDays {
			total += ageDays * youngRate
		} else {
			total += youngDays*youngRate + (ageDays-youngDays)*matureRate
		}
	}
	return total
}

// seasonalAlert simulates a watering/maintenance hint for the district:
// Jan-Mar and Jul-Aug are the drier months.
func seasonalAlert(now time.Time) *WeatherAlert {
	switch now.Month() {
	case time.January, time.February, time.March, time.July, time.August:
		return &WeatherAlert{
			Type:    "watering",
			Message: "Dry weather detected in Gampaha. Please water your trees today!",
			Urgency: "high",
		}
	}

	if hour := now.Hour(); hour > 6 && hour < 10 {
		return &WeatherAlert{
			Type:    "maintenance",
			Message: "Good morning! Perfect time for basic tree maintenance.",
			Urgency: "low",
		}
	}

	return nil
}

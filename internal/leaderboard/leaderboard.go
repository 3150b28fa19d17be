package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/gorm"
)

// DefaultLimit is applied when the caller passes a non-positive limit.
const DefaultLimit = 10

const storeTimeout = 5 * time.Second

// Ranker produces the tie-aware planter leaderboard from active tree counts.
type Ranker struct {
	db *gorm.DB
}

func NewRanker(db *gorm.DB) *Ranker {
	return &Ranker{db: db}
}

type Entry struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image,omitempty"`
	Count        int    `json:"count"`
	Rank         int    `json:"rank"`
}

type Board struct {
	TopPlanters []Entry           `json:"topPlanters"`
	Pagination  models.Pagination `json:"pagination"`
}

// GetLeaderboard ranks non-admin planters by their count of active trees,
// descending. Pagination happens before the admin filter, so a page may
// come back with fewer than limit entries; totalItems counts all distinct
// planters regardless of role.
func (r *Ranker) GetLeaderboard(ctx context.Context, page, limit int) (*Board, error) {
	page, limit = models.NormalizePage(page, limit, DefaultLimit)

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var totalItems int64
	err := r.db.WithContext(ctx).
		Model(&models.Tree{}).
		Where("status = ?", models.TreeStatusActive).
		Distinct("planter_id").
		Count(&totalItems).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: count planters: %w", err)
	}

	var rows []struct {
		PlanterID uint
		Count     int
	}
	err = r.db.WithContext(ctx).
		Model(&models.Tree{}).
		Select("planter_id, COUNT(*) AS count").
		Where("status = ?", models.TreeStatusActive).
		Group("planter_id").
		Order("count DESC, planter_id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: aggregate trees: %w", err)
	}

	base := (page - 1) * limit
	entries := make([]Entry, 0, len(rows))
	prevCount := -1
	prevRank := 0

	for i, row := range rows {
		// Tied counts share a rank; ranks are assigned over the page window
		// before the role filter so they track the global ordering.
		rank := base + i + 1
		if row.Count == prevCount {
			rank = prevRank
		}
		prevCount, prevRank = row.Count, rank

		var user models.User
		if err := r.db.WithContext(ctx).First(&user, row.PlanterID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// dangling planter reference
				continue
			}
			return nil, fmt.Errorf("leaderboard: resolve planter: %w", err)
		}
		if user.Role.CanModerate() {
			continue
		}

		entries = append(entries, Entry{
			UserID:       user.ID,
			Username:     user.Username,
			FullName:     user.FullName,
			ProfileImage: user.ProfileImage,
			Count:        row.Count,
			Rank:         rank,
		})
	}

	return &Board{
		TopPlanters: entries,
		Pagination:  models.NewPagination(int(totalItems), page, limit),
	}, nil
}

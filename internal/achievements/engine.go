package achievements

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gampahin-husmak/community-api/internal/models"
	"github.com/gampahin-husmak/community-api/internal/notifier"
	"gorm.io/gorm"
)

const storeTimeout = 5 * time.Second

// Engine evaluates badge thresholds when a planter registers a tree and
// awards each badge at most once per user.
type Engine struct {
	db       *gorm.DB
	notifier notifier.Notifier

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

// NewEngine creates the engine. notifier may be nil, in which case awards
// are only recorded in the store and the user's inbox.
func NewEngine(db *gorm.DB, n notifier.Notifier) *Engine {
	return &Engine{
		db:        db,
		notifier:  n,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

func (e *Engine) userLock(userID uint) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

// OnTreeCreated re-counts the planter's active trees and awards every active
// trees_planted badge whose trigger count equals the new total. The whole
// count-match-insert sequence holds a per-planter lock so two concurrent
// creations cannot observe the same count. Runs to completion even if the
// caller's request context is cancelled mid-flight.
func (e *Engine) OnTreeCreated(ctx context.Context, treeID, planterID uint) error {
	lock := e.userLock(planterID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	var treeCount int64
	err := e.db.WithContext(ctx).
		Model(&models.Tree{}).
		Where("planter_id = ? AND status = ?", planterID, models.TreeStatusActive).
		Count(&treeCount).Error
	if err != nil {
		return fmt.Errorf("achievements: count trees: %w", err)
	}

	var templates []models.BadgeTemplate
	err = e.db.WithContext(ctx).
		Where("is_active = ? AND badge_type = ? AND trigger_count = ?",
			true, models.BadgeTreesPlanted, treeCount).
		Find(&templates).Error
	if err != nil {
		return fmt.Errorf("achievements: load badge templates: %w", err)
	}

	for i := range templates {
		if err := e.award(ctx, planterID, &templates[i], treeID, int(treeCount), nil); err != nil {
			return err
		}
	}

	return nil
}

// AwardSpecial grants a badge to a user outside the automatic thresholds,
// e.g. an admin handing out a special badge. The same exactly-once rule
// applies.
func (e *Engine) AwardSpecial(ctx context.Context, userID uint, template *models.BadgeTemplate, awardedBy uint) error {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	return e.award(ctx, userID, template, 0, 0, &awardedBy)
}

func (e *Engine) award(ctx context.Context, userID uint, template *models.BadgeTemplate, treeID uint, treeCount int, awardedBy *uint) error {
	var existing models.Achievement
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND badge_name = ?", userID, template.Name).
		First(&existing).Error
	if err == nil {
		// already earned, e.g. the count returned to this threshold after a
		// tree was removed and re-registered
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("achievements: check existing award: %w", err)
	}

	achievement := models.Achievement{
		UserID:          userID,
		BadgeName:       template.Name,
		BadgeType:       template.BadgeType,
		Description:     template.Description,
		Icon:            template.Icon,
		EarnedAt:        time.Now(),
		BadgeTemplateID: &template.ID,
		AwardedByID:     awardedBy,
	}
	if err := e.db.WithContext(ctx).Create(&achievement).Error; err != nil {
		return fmt.Errorf("achievements: record award: %w", err)
	}

	// The award stands even if the notification writes below fail.
	notification := models.Notification{
		UserID:  userID,
		Subject: "Achievement Unlocked!",
		Message: awardMessage(template.Name, treeCount),
	}
	if treeID != 0 {
		notification.RelatedTreeID = &treeID
	}
	if err := e.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("Failed to create award notification for user %d: %v", userID, err)
	}

	if e.notifier != nil {
		var user models.User
		if err := e.db.WithContext(ctx).First(&user, userID).Error; err == nil {
			if err := e.notifier.AnnounceAward(user, achievement, treeCount); err != nil {
				log.Printf("Failed to announce award: %v", err)
			}
		}
	}

	return nil
}

func awardMessage(badgeName string, treeCount int) string {
	if treeCount == 0 {
		return fmt.Sprintf("Congratulations! You've been awarded the %q badge. Check your profile to see your new badge!", badgeName)
	}

	plural := ""
	if treeCount > 1 {
		plural = "s"
	}
	return fmt.Sprintf("Congratulations! You've earned the %q badge for planting %d tree%s. Check your profile to see your new badge!",
		badgeName, treeCount, plural)
}

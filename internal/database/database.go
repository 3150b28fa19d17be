package database

import (
	"log"

	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	if err := SeedBadgeTemplates(db); err != nil {
		log.Fatalf("Failed to seed badge templates: %v", err)
	}

	return db
}

// Migrate runs the schema migration for every entity. Tests share it so the
// in-memory databases match production.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tree{},
		&models.TreeUpdate{},
		&models.Event{},
		&models.Gallery{},
		&models.GalleryLike{},
		&models.BadgeTemplate{},
		&models.Achievement{},
		&models.Notification{},
		&models.Contact{},
		&models.ContactResponse{},
	)
}

// SeedBadgeTemplates inserts the built-in planting thresholds if they are
// not present yet. Existing rows are left untouched so admins can deactivate
// or reword them.
func SeedBadgeTemplates(db *gorm.DB) error {
	seeds := []models.BadgeTemplate{
		{Name: "First Seed", BadgeType: models.BadgeTreesPlanted, Description: "Planted your very first tree!", Icon: "🌱", TriggerCount: intPtr(1), IsActive: true},
		{Name: "Green Thumb", BadgeType: models.BadgeTreesPlanted, Description: "Planted 5 trees. You're making a difference!", Icon: "🌿", TriggerCount: intPtr(5), IsActive: true},
		{Name: "Forest Guardian", BadgeType: models.BadgeTreesPlanted, Description: "Planted 10 trees. A true environmental hero!", Icon: "🌳", TriggerCount: intPtr(10), IsActive: true},
		{Name: "Nature's Champion", BadgeType: models.BadgeTreesPlanted, Description: "Planted 25 trees. Gampaha thanks you!", Icon: "👑", TriggerCount: intPtr(25), IsActive: true},
	}

	for _, seed := range seeds {
		var existing models.BadgeTemplate
		err := db.Where("name = ?", seed.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&seed).Error; err != nil {
			return err
		}
	}

	return nil
}

func intPtr(n int) *int {
	return &n
}

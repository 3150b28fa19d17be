package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/gampahin-husmak/community-api/internal/achievements"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/database"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gorm.DB, *config.Config, *auth.AuthHandler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := database.SeedBadgeTemplates(db); err != nil {
		t.Fatalf("failed to seed badge templates: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret",
		District:  "Gampaha",
	}
	return db, cfg, auth.NewAuthHandler(cfg, db)
}

func loginAs(t *testing.T, db *gorm.DB, authHandler *auth.AuthHandler, username string, role models.Role) (models.User, string) {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	token, err := authHandler.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, "auth_token=" + token
}

func TestHandleCreateTreeAwardsFirstBadge(t *testing.T) {
	db, cfg, authHandler := setupTest(t)
	user, cookie := loginAs(t, db, authHandler, "nimal", models.RoleVolunteer)

	engine := achievements.NewEngine(db, nil)
	handler := NewTreeHandler(db, engine, authHandler, cfg)

	req := &CreateTreeRequest{}
	req.Cookie = cookie
	req.Body.Species = "Mangifera indica"
	req.Body.CommonName = "Mango"
	req.Body.Latitude = 7.0873
	req.Body.Longitude = 80.0144

	resp, err := handler.HandleCreateTree(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleCreateTree returned error: %v", err)
	}

	if resp.Status != 201 {
		t.Errorf("expected status 201, got %d", resp.Status)
	}
	if !strings.HasPrefix(resp.Body.Tree.TreeCode, "TREE-") {
		t.Errorf("unexpected tree code: %s", resp.Body.Tree.TreeCode)
	}
	if resp.Body.Tree.District != "Gampaha" {
		t.Errorf("expected default district, got %s", resp.Body.Tree.District)
	}
	if resp.Body.Tree.Status != models.TreeStatusActive {
		t.Errorf("expected active status, got %s", resp.Body.Tree.Status)
	}

	var achievement models.Achievement
	err = db.Where("user_id = ? AND badge_name = ?", user.ID, "First Seed").First(&achievement).Error
	if err != nil {
		t.Fatalf("expected First Seed badge after first tree: %v", err)
	}
}

func TestHandleCreateTreeRequiresAuth(t *testing.T) {
	db, cfg, authHandler := setupTest(t)

	handler := NewTreeHandler(db, achievements.NewEngine(db, nil), authHandler, cfg)

	req := &CreateTreeRequest{}
	req.Body.Species = "Mangifera indica"
	req.Body.CommonName = "Mango"

	if _, err := handler.HandleCreateTree(context.Background(), req); err == nil {
		t.Fatal("expected error without a session cookie")
	}

	var count int64
	db.Model(&models.Tree{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no trees created, got %d", count)
	}
}

func TestHandleUpdateTreeOwnership(t *testing.T) {
	db, cfg, authHandler := setupTest(t)
	owner, ownerCookie := loginAs(t, db, authHandler, "owner", models.RoleVolunteer)
	_, strangerCookie := loginAs(t, db, authHandler, "stranger", models.RoleVolunteer)
	_, adminCookie := loginAs(t, db, authHandler, "admin", models.RoleAdmin)

	handler := NewTreeHandler(db, achievements.NewEngine(db, nil), authHandler, cfg)

	createReq := &CreateTreeRequest{}
	createReq.Cookie = ownerCookie
	createReq.Body.Species = "Tectona grandis"
	createReq.Body.CommonName = "Teak"
	created, err := handler.HandleCreateTree(context.Background(), createReq)
	if err != nil {
		t.Fatalf("HandleCreateTree returned error: %v", err)
	}
	treeID := created.Body.Tree.ID

	strangerReq := &UpdateTreeRequest{ID: treeID}
	strangerReq.Cookie = strangerCookie
	strangerReq.Body.Notes = "not mine"
	if _, err := handler.HandleUpdateTree(context.Background(), strangerReq); err == nil {
		t.Fatal("expected error when another volunteer updates the tree")
	}

	ownerReq := &UpdateTreeRequest{ID: treeID}
	ownerReq.Cookie = ownerCookie
	ownerReq.Body.Notes = "growing well"
	if _, err := handler.HandleUpdateTree(context.Background(), ownerReq); err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}

	adminReq := &UpdateTreeRequest{ID: treeID}
	adminReq.Cookie = adminCookie
	adminReq.Body.Status = models.TreeStatusRemoved
	if _, err := handler.HandleUpdateTree(context.Background(), adminReq); err != nil {
		t.Fatalf("admin retire returned error: %v", err)
	}

	var tree models.Tree
	if err := db.First(&tree, treeID).Error; err != nil {
		t.Fatalf("failed to reload tree: %v", err)
	}
	if tree.Status != models.TreeStatusRemoved {
		t.Errorf("expected removed status, got %s", tree.Status)
	}
	if tree.Notes != "growing well" {
		t.Errorf("expected owner's notes to persist, got %q", tree.Notes)
	}
	if tree.PlanterID != owner.ID {
		t.Errorf("planter must not change on update, got %d", tree.PlanterID)
	}
}

func TestHandleAddTreeUpdateRefreshesTree(t *testing.T) {
	db, cfg, authHandler := setupTest(t)
	_, cookie := loginAs(t, db, authHandler, "nimal", models.RoleVolunteer)

	handler := NewTreeHandler(db, achievements.NewEngine(db, nil), authHandler, cfg)

	createReq := &CreateTreeRequest{}
	createReq.Cookie = cookie
	createReq.Body.Species = "Mangifera indica"
	createReq.Body.CommonName = "Mango"
	createReq.Body.Height = 0.5
	created, err := handler.HandleCreateTree(context.Background(), createReq)
	if err != nil {
		t.Fatalf("HandleCreateTree returned error: %v", err)
	}

	updateReq := &AddTreeUpdateRequest{ID: created.Body.Tree.ID}
	updateReq.Cookie = cookie
	updateReq.Body.Height = 1.2
	updateReq.Body.Health = models.HealthExcellent
	updateReq.Body.Images = []string{"month1.jpg"}

	resp, err := handler.HandleAddTreeUpdate(context.Background(), updateReq)
	if err != nil {
		t.Fatalf("HandleAddTreeUpdate returned error: %v", err)
	}
	if resp.Status != 201 {
		t.Errorf("expected status 201, got %d", resp.Status)
	}

	var tree models.Tree
	if err := db.First(&tree, created.Body.Tree.ID).Error; err != nil {
		t.Fatalf("failed to reload tree: %v", err)
	}
	if tree.CurrentHeight != 1.2 {
		t.Errorf("expected refreshed height 1.2, got %f", tree.CurrentHeight)
	}
	if tree.CurrentHealth != models.HealthExcellent {
		t.Errorf("expected refreshed health, got %s", tree.CurrentHealth)
	}

	badReq := &AddTreeUpdateRequest{ID: created.Body.Tree.ID}
	badReq.Cookie = cookie
	badReq.Body.Health = "thriving"
	if _, err := handler.HandleAddTreeUpdate(context.Background(), badReq); err == nil {
		t.Fatal("expected error for invalid health value")
	}
}

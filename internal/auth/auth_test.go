package auth

import (
	"context"
	"testing"

	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/database"
	"github.com/gampahin-husmak/community-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuth(t *testing.T) (*gorm.DB, *AuthHandler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	return db, NewAuthHandler(cfg, db)
}

func TestRegisterLoginMe(t *testing.T) {
	db, handler := setupAuth(t)

	regReq := &RegisterRequest{}
	regReq.Body.Username = "nimal"
	regReq.Body.Email = "nimal@example.com"
	regReq.Body.Password = "plant-more-trees"
	regReq.Body.FullName = "Nimal Perera"

	regResp, err := handler.HandleRegister(context.Background(), regReq)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}
	if regResp.Body.User.Role != models.RoleVolunteer {
		t.Errorf("expected volunteer role on registration, got %s", regResp.Body.User.Role)
	}
	if regResp.SetCookie.Name != "auth_token" || regResp.SetCookie.Value == "" {
		t.Errorf("expected a session cookie, got %+v", regResp.SetCookie)
	}

	// Duplicate registration is rejected.
	if _, err := handler.HandleRegister(context.Background(), regReq); err == nil {
		t.Fatal("expected error for duplicate registration")
	}

	// Password is stored hashed.
	var stored models.User
	if err := db.Where("email = ?", "nimal@example.com").First(&stored).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if string(stored.Password) == "plant-more-trees" {
		t.Error("password must not be stored in clear text")
	}

	loginReq := &LoginRequest{}
	loginReq.Body.Email = "nimal@example.com"
	loginReq.Body.Password = "plant-more-trees"
	loginResp, err := handler.HandleLogin(context.Background(), loginReq)
	if err != nil {
		t.Fatalf("HandleLogin returned error: %v", err)
	}

	meReq := &MeRequest{}
	meReq.Cookie = "auth_token=" + loginResp.SetCookie.Value
	meResp, err := handler.HandleMe(context.Background(), meReq)
	if err != nil {
		t.Fatalf("HandleMe returned error: %v", err)
	}
	if meResp.Body.User.Username != "nimal" {
		t.Errorf("expected username nimal, got %s", meResp.Body.User.Username)
	}

	loginReq.Body.Password = "wrong-password"
	if _, err := handler.HandleLogin(context.Background(), loginReq); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestAuthorizeRejectsBadTokens(t *testing.T) {
	_, handler := setupAuth(t)

	if _, err := handler.Authorize(context.Background(), ""); err == nil {
		t.Error("expected error for missing cookie")
	}
	if _, err := handler.Authorize(context.Background(), "auth_token=not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := handler.Authorize(context.Background(), "other_cookie=value"); err == nil {
		t.Error("expected error when the session cookie is absent")
	}
}

func TestExtractTokenFromCookieHeader(t *testing.T) {
	if got := extractToken("theme=dark; auth_token=abc123; lang=si"); got != "abc123" {
		t.Errorf("expected abc123, got %q", got)
	}
	if got := extractToken("theme=dark"); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
}

func TestRoleGates(t *testing.T) {
	db, handler := setupAuth(t)

	users := map[models.Role]string{}
	for _, role := range []models.Role{models.RoleVolunteer, models.RoleAdmin, models.RoleSuperAdmin} {
		user := models.User{
			Username: string(role),
			Email:    string(role) + "@example.com",
			FullName: string(role),
			Role:     role,
		}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("failed to create %s: %v", role, err)
		}
		token, err := handler.GenerateToken(user.ID)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		users[role] = "auth_token=" + token
	}

	if _, err := handler.RequireModerator(context.Background(), users[models.RoleVolunteer]); err == nil {
		t.Error("volunteer must not pass the moderator gate")
	}
	if _, err := handler.RequireModerator(context.Background(), users[models.RoleAdmin]); err != nil {
		t.Errorf("admin failed the moderator gate: %v", err)
	}
	if _, err := handler.RequireSuperAdmin(context.Background(), users[models.RoleAdmin]); err == nil {
		t.Error("admin must not pass the superadmin gate")
	}
	if _, err := handler.RequireSuperAdmin(context.Background(), users[models.RoleSuperAdmin]); err != nil {
		t.Errorf("superadmin failed the superadmin gate: %v", err)
	}
}

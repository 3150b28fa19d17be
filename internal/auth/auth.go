package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

const cookieName = "auth_token"

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// AuthInput is embedded in every request struct that needs a signed-in user.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie" required:"false"`
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// parseToken validates a signed token and returns the user id and expiry
// carried in its claims.
func (h *AuthHandler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid token claims")
	}

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}

	return uint(userIDFloat), expiresAt, nil
}

// Authorize resolves the session cookie to a user id.
func (h *AuthHandler) Authorize(ctx context.Context, cookie string) (uint, error) {
	tokenString := extractToken(cookie)
	if tokenString == "" {
		return 0, huma.Error401Unauthorized("Not authenticated")
	}

	userID, _, err := h.parseToken(tokenString)
	if err != nil {
		return 0, huma.Error401Unauthorized("Invalid token")
	}

	return userID, nil
}

// CurrentUser resolves the session cookie to the full user record.
func (h *AuthHandler) CurrentUser(ctx context.Context, cookie string) (*models.User, error) {
	userID, err := h.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	return &user, nil
}

// RequireModerator resolves the session and rejects callers without admin
// capabilities.
func (h *AuthHandler) RequireModerator(ctx context.Context, cookie string) (*models.User, error) {
	user, err := h.CurrentUser(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if !user.Role.CanModerate() {
		return nil, huma.Error403Forbidden("Admin access required")
	}
	return user, nil
}

// RequireSuperAdmin resolves the session and rejects callers that are not
// superadmins.
func (h *AuthHandler) RequireSuperAdmin(ctx context.Context, cookie string) (*models.User, error) {
	user, err := h.CurrentUser(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsSuperAdmin() {
		return nil, huma.Error403Forbidden("Super admin access required")
	}
	return user, nil
}

func extractToken(cookieHeader string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, cookieName+"="); ok {
			return value
		}
	}
	return ""
}

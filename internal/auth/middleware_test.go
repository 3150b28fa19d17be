package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret string, userID uint, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func TestSlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := handler.SlidingSession(next)

	t.Run("TokenRenewed", func(t *testing.T) {
		// Less than half of TokenDuration (12h) remaining.
		tokenString := signedToken(t, cfg.JWTSecret, 1, 11*time.Hour)

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: tokenString})
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" {
				found = true
				if c.Value == tokenString {
					t.Error("expected a fresh token value, got the old one")
				}
			}
		}
		if !found {
			t.Error("expected a refreshed auth_token cookie")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		// More than half of TokenDuration remaining.
		tokenString := signedToken(t, cfg.JWTSecret, 1, 13*time.Hour)

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: tokenString})
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" {
				t.Error("did not expect a refreshed auth_token cookie")
			}
		}
	})

	t.Run("InvalidTokenPassesThrough", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})
		rr := httptest.NewRecorder()

		middleware.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Error("did not expect any cookie for an invalid token")
		}
	})
}

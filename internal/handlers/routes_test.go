package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gampahin-husmak/community-api/internal/achievements"
	"github.com/gampahin-husmak/community-api/internal/feed"
	"github.com/gampahin-husmak/community-api/internal/leaderboard"
	"github.com/gampahin-husmak/community-api/internal/models"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	db, cfg, authHandler := setupTest(t)
	engine := achievements.NewEngine(db, nil)

	h := &Handlers{
		Auth:          authHandler,
		Trees:         NewTreeHandler(db, engine, authHandler, cfg),
		Gallery:       NewGalleryHandler(db, feed.NewAggregator(db), authHandler),
		Leaderboard:   NewLeaderboardHandler(leaderboard.NewRanker(db)),
		Events:        NewEventHandler(db, authHandler),
		Notifications: NewNotificationHandler(db, authHandler),
		Contacts:      NewContactHandler(db, authHandler),
		Stats:         NewStatsHandler(db),
		Admin:         NewAdminHandler(db, engine, authHandler),
	}

	r := chi.NewRouter()
	RegisterRoutes(r, cfg, h)
	return r, db
}

func TestFeedRouteDefaultsGarbagePagination(t *testing.T) {
	r, db := setupRouter(t)

	user := models.User{Username: "nimal", Email: "nimal@example.com", FullName: "Nimal", Role: models.RoleVolunteer}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	tree := models.Tree{
		TreeCode:    "TREE-ROUTE-1",
		PlanterID:   user.ID,
		Species:     "Mangifera indica",
		CommonName:  "Mango",
		District:    "Gampaha",
		PlantedDate: time.Now(),
		Images:      models.StringList{"m.jpg"},
		Status:      models.TreeStatusActive,
	}
	if err := db.Create(&tree).Error; err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/gallery?page=abc&limit=xyz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// Garbage page/limit values fall back to defaults instead of a 422.
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Items      []feed.Item       `json:"items"`
		Pagination models.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Pagination.CurrentPage != 1 {
		t.Errorf("expected defaulted page 1, got %d", body.Pagination.CurrentPage)
	}
	if body.Pagination.Limit != feed.DefaultLimit {
		t.Errorf("expected default limit %d, got %d", feed.DefaultLimit, body.Pagination.Limit)
	}
	if len(body.Items) != 1 {
		t.Errorf("expected the seeded tree post, got %d items", len(body.Items))
	}

	req = httptest.NewRequest("GET", "/api/leaderboard?page=&limit=-5", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 for empty/negative pagination, got %d", rr.Code)
	}
}

func TestRouteSurface(t *testing.T) {
	r, _ := setupRouter(t)

	public := []string{"/health", "/api/stats", "/api/gallery", "/api/leaderboard", "/api/trees", "/api/events"}
	for _, path := range public {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: expected status 200, got %d", path, rr.Code)
		}
	}

	// Session-only surface rejects anonymous callers rather than 404ing.
	authed := []string{"/api/my-contacts", "/api/notifications", "/api/achievements/me"}
	for _, path := range authed {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: expected status 401, got %d", path, rr.Code)
		}
	}
}

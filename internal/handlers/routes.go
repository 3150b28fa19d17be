package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth          *auth.AuthHandler
	Trees         *TreeHandler
	Gallery       *GalleryHandler
	Leaderboard   *LeaderboardHandler
	Events        *EventHandler
	Notifications *NotificationHandler
	Contacts      *ContactHandler
	Stats         *StatsHandler
	Admin         *AdminHandler
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h *Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.Auth.SlidingSession)
	if cfg.EnableCORS {
		r.Use(corsMiddleware(cfg.FrontendURL))
	}

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("Gampahin Husmak API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, apiConfig)

	secured := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Get(api, "/api/gallery", h.Gallery.HandleFeed)
	huma.Get(api, "/api/leaderboard", h.Leaderboard.HandleLeaderboard)
	huma.Get(api, "/api/trees", h.Trees.HandleListTrees)
	huma.Get(api, "/api/trees/{id}", h.Trees.HandleGetTree)
	huma.Get(api, "/api/events", h.Events.HandleListEvents)
	huma.Get(api, "/api/events/{id}", h.Events.HandleGetEvent)
	huma.Get(api, "/api/stats", h.Stats.HandleDashboardStats)
	huma.Get(api, "/api/stats/user/{userId}", h.Stats.HandleUserStats)
	huma.Post(api, "/api/contact", h.Contacts.HandleSubmitContact)

	// Auth routes
	huma.Post(api, "/api/auth/register", h.Auth.HandleRegister)
	huma.Post(api, "/api/auth/login", h.Auth.HandleLogin)
	huma.Post(api, "/api/auth/logout", h.Auth.HandleLogout)
	huma.Get(api, "/api/auth/me", h.Auth.HandleMe, secured)
	r.Get("/api/auth/discord/login", h.Auth.HandleDiscordLogin)
	r.Get("/api/auth/discord/callback", h.Auth.HandleDiscordCallback)

	// Volunteer routes
	huma.Post(api, "/api/trees", h.Trees.HandleCreateTree, secured)
	huma.Put(api, "/api/trees/{id}", h.Trees.HandleUpdateTree, secured)
	huma.Post(api, "/api/trees/{id}/updates", h.Trees.HandleAddTreeUpdate, secured)
	huma.Post(api, "/api/gallery", h.Gallery.HandleCreateGallery, secured)
	huma.Post(api, "/api/gallery/{id}/like", h.Gallery.HandleLikeGallery, secured)
	huma.Post(api, "/api/events", h.Events.HandleCreateEvent, secured)
	huma.Post(api, "/api/events/{id}/join", h.Events.HandleJoinEvent, secured)
	huma.Get(api, "/api/notifications", h.Notifications.HandleListNotifications, secured)
	huma.Put(api, "/api/notifications/{id}/read", h.Notifications.HandleMarkNotificationRead, secured)
	huma.Get(api, "/api/my-contacts", h.Contacts.HandleMyContacts, secured)
	huma.Put(api, "/api/my-contacts/{id}/seen", h.Contacts.HandleMarkContactSeen, secured)
	huma.Get(api, "/api/achievements/me", h.Admin.HandleMyAchievements, secured)

	// Admin routes
	huma.Get(api, "/api/admin/users", h.Admin.HandleListUsers, secured)
	huma.Put(api, "/api/admin/users/{id}/role", h.Admin.HandleUpdateUserRole, secured)
	huma.Put(api, "/api/admin/users/{id}/verify", h.Admin.HandleVerifyUser, secured)
	huma.Delete(api, "/api/admin/users/{id}", h.Admin.HandleDeleteUser, secured)
	huma.Get(api, "/api/admin/summary", h.Admin.HandleAdminSummary, secured)
	huma.Post(api, "/api/admin/trees/{id}/remind", h.Admin.HandleRemindTree, secured)
	huma.Delete(api, "/api/admin/trees/{id}", h.Admin.HandleHardDeleteTree, secured)
	huma.Post(api, "/api/admin/message/{userId}", h.Admin.HandleAdminMessage, secured)
	huma.Get(api, "/api/admin/contacts", h.Contacts.HandleAdminListContacts, secured)
	huma.Post(api, "/api/admin/contacts/{id}/respond", h.Contacts.HandleRespondContact, secured)
	huma.Put(api, "/api/admin/contacts/{id}/status", h.Contacts.HandleUpdateContactStatus, secured)
	huma.Post(api, "/api/admin/badges", h.Admin.HandleCreateBadgeTemplate, secured)
	huma.Get(api, "/api/admin/badges", h.Admin.HandleListBadgeTemplates, secured)
	huma.Put(api, "/api/admin/badges/{id}", h.Admin.HandleUpdateBadgeTemplate, secured)
	huma.Post(api, "/api/admin/badges/award", h.Admin.HandleAwardBadge, secured)
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

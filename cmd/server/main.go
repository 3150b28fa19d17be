package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gampahin-husmak/community-api/internal/achievements"
	"github.com/gampahin-husmak/community-api/internal/auth"
	"github.com/gampahin-husmak/community-api/internal/config"
	"github.com/gampahin-husmak/community-api/internal/database"
	"github.com/gampahin-husmak/community-api/internal/feed"
	"github.com/gampahin-husmak/community-api/internal/handlers"
	"github.com/gampahin-husmak/community-api/internal/leaderboard"
	"github.com/gampahin-husmak/community-api/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifier
	var badgeNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			badgeNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	engine := achievements.NewEngine(db, badgeNotifier)
	aggregator := feed.NewAggregator(db)
	ranker := leaderboard.NewRanker(db)

	h := &handlers.Handlers{
		Auth:          authHandler,
		Trees:         handlers.NewTreeHandler(db, engine, authHandler, cfg),
		Gallery:       handlers.NewGalleryHandler(db, aggregator, authHandler),
		Leaderboard:   handlers.NewLeaderboardHandler(ranker),
		Events:        handlers.NewEventHandler(db, authHandler),
		Notifications: handlers.NewNotificationHandler(db, authHandler),
		Contacts:      handlers.NewContactHandler(db, authHandler),
		Stats:         handlers.NewStatsHandler(db),
		Admin:         handlers.NewAdminHandler(db, engine, authHandler),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

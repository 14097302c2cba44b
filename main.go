package main

import (
	"log"

	api "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/cmd/api"
	authdomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/domain"
	authRepo "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/repository"
	authUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/usecase"
	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
	calendarRepo "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/repository"
	calendarUsecase "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/usecase"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/matcher"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/config"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/database"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/gcal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&caldomain.GoogleCredential{},
		&caldomain.OverallSyncProgress{},
		&caldomain.MonthSyncProgress{},
		&caldomain.CalendarEvent{},
		&matcher.Contact{},
		&matcher.EventContactMatch{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	progressRepo := calendarRepo.NewSyncProgressRepository(db)
	eventRepo := calendarRepo.NewCalendarEventRepository(db, cfg.SyncUpsertChunk)
	credentialRepo := calendarRepo.NewCredentialRepository(db)

	// Initialize Google Calendar provider client
	gcalService := gcal.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	// Initialize event-to-contact matcher
	matcherService := matcher.NewService(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	syncUsecaseInstance := calendarUsecase.NewCalendarSyncUsecase(
		progressRepo, eventRepo, credentialRepo, gcalService, matcherService, calendarUsecase.NewLogConsole(), cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, syncUsecaseInstance, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

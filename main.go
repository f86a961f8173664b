package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/dosewise/dosewise/internal/bot"
	"github.com/dosewise/dosewise/internal/bot/handlers"
	"github.com/dosewise/dosewise/internal/bot/state"
	"github.com/dosewise/dosewise/internal/config"
	"github.com/dosewise/dosewise/internal/database"
	"github.com/dosewise/dosewise/internal/logger"
	"github.com/dosewise/dosewise/internal/repository"
	"github.com/dosewise/dosewise/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting DoseWise Bot...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Configuration loaded successfully")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established and migrations completed")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	doseRepo := repository.NewDoseLogRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	aiService := services.NewAIService(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	userService := services.NewUserService(userRepo)
	doseService := services.NewDoseService(doseRepo)
	profileService := services.NewProfileService(profileRepo)
	recommendService := services.NewRecommendationService(doseService, profileService)
	logger.Info("Services initialized successfully")

	// Conversation state: Redis when configured, in-memory otherwise
	var stateManager state.StateManager
	if cfg.Redis.Host != "" {
		redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Using Redis state manager")
	} else {
		stateManager = state.NewManager()
		logger.Info("Using in-memory state manager")
	}

	deps := handlers.Dependencies{
		UserService:    userService,
		DoseService:    doseService,
		ProfileService: profileService,
		RecommendSvc:   recommendService,
		AIService:      aiService,
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}
	logger.Info("Bot initialized successfully")

	// Start bot in a goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := telegramBot.Start(context.Background()); err != nil {
			logger.Errorf("Bot stopped with error: %v", err)
			os.Exit(1)
		}
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	wg.Wait()
}

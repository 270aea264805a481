package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ratecard-service/internal/advisory"
	"ratecard-service/internal/ai/gemini"
	"ratecard-service/internal/cache"
	"ratecard-service/internal/config"
	"ratecard-service/internal/database/postgres"
	"ratecard-service/internal/database/redis"
	"ratecard-service/internal/event"
	"ratecard-service/internal/handlers"
	"ratecard-service/internal/repository"
	"ratecard-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/ratecard", "log", "ratecard_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.Connect(cfg.RedisCfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	cacheStore := cache.NewRedisStore(redisClient.GetClient())

	var publisher services.EventPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ, lifecycle events disabled: %v", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewRateCardPublisher(rabbitConn)
	}

	var advisor advisory.Client
	if len(cfg.GeminiAPICfg.APIKeys) > 0 {
		var clients []gemini.GeminiClient
		for _, key := range cfg.GeminiAPICfg.APIKeys {
			client, err := gemini.NewGenAIClient(key, cfg.GeminiAPICfg.FlashName, cfg.GeminiAPICfg.ProName)
			if err != nil {
				log.Printf("Failed to initialize Gemini client: %v", err)
				continue
			}
			clients = append(clients, *client)
		}
		if len(clients) > 0 {
			selector := gemini.NewGeminiClientSelector(clients)
			advisor = advisory.NewGeminiAdvisor(selector, time.Duration(cfg.AdvisoryCfg.TimeoutSeconds)*time.Second)
		}
	}
	if advisor == nil {
		log.Printf("No Gemini clients available, pricing runs on the local market model only")
	}

	rateCardRepo := repository.NewRateCardRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	engine := services.NewPricingEngine(advisor, cacheStore, time.Duration(cfg.AdvisoryCfg.CacheTTLMinutes)*time.Minute)
	quota := services.NewQuotaGuard(cfg.QuotaCfg)
	rateCardService := services.NewRateCardService(rateCardRepo, historyRepo, cacheStore, engine, quota, publisher)
	publicService := services.NewPublicRateCardService(rateCardRepo, cacheStore)

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Rate card service is healthy")
	})

	rateCardHandler := handlers.NewRateCardHandler(rateCardService)
	rateCardHandler.Register(app)

	publicHandler := handlers.NewPublicRateCardHandler(publicService)
	publicHandler.Register(app)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

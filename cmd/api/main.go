package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"gemma-chat/internal/config"
	"gemma-chat/internal/db"
	apihttp "gemma-chat/internal/http"
	"gemma-chat/internal/llm"
	"gemma-chat/internal/repository"
	"gemma-chat/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Postgres si hay DATABASE_URL; si no, el archivo JSON local.
	var chatRepo repository.ChatRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		chatRepo = repository.NewPgChatRepository(pool)
		logger.Info("using postgres chat store")
	} else {
		chatRepo = repository.NewFileChatRepository(cfg.DataFile)
		logger.Info("using file chat store", zap.String("path", cfg.DataFile))
	}

	sessionStore := service.NewMemorySessionStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
			logger.Info("using redis session store")
		}
		cancel()
	}

	var llmClient llm.Client = llm.NewPlaceholderClient()
	if cfg.LLMAPIKey != "" {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
		logger.Info("using llm backend", zap.String("model", cfg.LLMModel))
	} else {
		logger.Warn("llm api key not configured, replies are canned")
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	authSvc := service.NewAuthService(cfg.AuthSecret, sessionTTL, sessionStore)
	chatSvc := service.NewChatService(chatRepo, llmClient, logger)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	pageHandler := apihttp.NewPageHandler(logger, authSvc, chatSvc)
	router := apihttp.NewRouter(logger, authSvc, authHandler, chatHandler, pageHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

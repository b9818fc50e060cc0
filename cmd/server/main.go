package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"tales-server/internal/config"
	"tales-server/internal/game"
	"tales-server/internal/handler"
	"tales-server/internal/logger"
	"tales-server/internal/middleware"
	"tales-server/internal/repository"
	"tales-server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Не удалось инициализировать логгер: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Логгер инициализирован", zap.String("logLevel", cfg.LogLevel))

	// --- Хранилище ---
	backend, closeBackend, err := setupBackend(cfg, log)
	if err != nil {
		zap.L().Fatal("Не удалось инициализировать хранилище", zap.Error(err))
	}
	defer closeBackend()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	storyRepo := repository.NewStoryRepository(bootCtx, backend, log.Named("StoryRepo"))
	contentRepo := repository.NewContentRepository(bootCtx, backend, log.Named("ContentRepo"))
	bootCancel()

	// --- Сервисы ---
	aiClient, err := service.NewAIClient(cfg, log)
	if err != nil {
		zap.L().Fatal("Не удалось создать AI клиент", zap.Error(err))
	}
	generator := service.NewGenerationService(aiClient, log)
	imageGen := service.NewPlaceholderImageGenerator(cfg.ImageDelay, log)
	library := service.NewLibraryService(storyRepo, contentRepo, generator, imageGen, log)
	sessions := game.NewManager(cfg.SessionTTL, log)

	libraryHandler := handler.NewLibraryHandler(library)
	gameHandler := handler.NewGameHandler(library, sessions)

	// --- HTTP сервер ---
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	api := router.Group("/api")
	libraryHandler.RegisterRoutes(api)
	gameHandler.RegisterRoutes(api)

	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Запуск HTTP сервера", zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Ошибка HTTP сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Остановка сервера...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP сервер остановлен принудительно", zap.Error(err))
	}

	zap.L().Info("Сервер завершил работу")
}

// setupBackend выбирает бэкенд хранилища по конфигурации.
func setupBackend(cfg *config.Config, log *zap.Logger) (repository.Backend, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis недоступен: %w", err)
		}
		log.Info("Подключение к Redis установлено", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisBackend(client, log), func() { client.Close() }, nil
	case "file":
		backend, err := repository.NewFileBackend(cfg.DataDir, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Файловое хранилище готово", zap.String("dir", cfg.DataDir))
		return backend, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный бэкенд хранилища: %q", cfg.StorageBackend)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dkovalev/skillswap-backend/internal/config"
	"github.com/dkovalev/skillswap-backend/internal/db"
	"github.com/dkovalev/skillswap-backend/internal/goroutine"
	httpHandlers "github.com/dkovalev/skillswap-backend/internal/http/handlers"
	httpRouter "github.com/dkovalev/skillswap-backend/internal/http/router"
	"github.com/dkovalev/skillswap-backend/internal/logger"
	"github.com/dkovalev/skillswap-backend/internal/repository"
	"github.com/dkovalev/skillswap-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера.
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	serviceRepo := repository.NewServiceRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo)
	catalogService := service.NewCatalogService(serviceRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	exchangeService := service.NewExchangeService(transactionRepo, userRepo, serviceRepo, notificationService)
	seedService := service.NewSeedService(userRepo, serviceRepo)

	// Фоновая чистка протухших сессий.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(cfg.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := userRepo.DeleteExpiredSessions(ctx)
				if err != nil {
					logger.Log.WithField("error", err.Error()).Warn("main: не удалось удалить протухшие сессии")
					continue
				}
				if deleted > 0 {
					logger.Log.WithField("deleted", deleted).Info("main: удалены протухшие сессии")
				}
			}
		}
	})

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	serviceHandler := httpHandlers.NewServiceHandler(catalogService)
	transactionHandler := httpHandlers.NewTransactionHandler(exchangeService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, serviceHandler, transactionHandler, notificationHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/poker-league/config"
	"github.com/Dosada05/poker-league/db"
	"github.com/Dosada05/poker-league/handlers"
	"github.com/Dosada05/poker-league/live"
	"github.com/Dosada05/poker-league/repositories"
	api "github.com/Dosada05/poker-league/routes"
	"github.com/Dosada05/poker-league/services"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	levelRepo := repositories.NewPostgresBlindLevelRepository(dbConn)
	tournamentPlayerRepo := repositories.NewPostgresTournamentPlayerRepository(dbConn)
	bustRepo := repositories.NewPostgresBustEventRepository(dbConn)
	eliminationRepo := repositories.NewPostgresEliminationRepository(dbConn)
	logger.Info("repositories initialized")

	txRunner := services.NewSQLTxRunner(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(playerRepo, cfg.JWTSecretKey)
	seasonService := services.NewSeasonService(seasonRepo)
	tournamentService := services.NewTournamentService(
		txRunner,
		tournamentRepo,
		seasonRepo,
		levelRepo,
		tournamentPlayerRepo,
		logger,
	)
	timerService := services.NewTimerService(
		txRunner,
		tournamentRepo,
		levelRepo,
		hub,
		logger,
	)
	removalService := services.NewRemovalService(
		txRunner,
		tournamentRepo,
		levelRepo,
		tournamentPlayerRepo,
		bustRepo,
		eliminationRepo,
		seasonRepo,
		timerService,
		hub,
		logger,
		services.WithAutoResumeDelay(time.Duration(cfg.TimerAutoResumeSeconds)*time.Second),
	)
	leaderboardService := services.NewLeaderboardService(
		txRunner,
		seasonRepo,
		tournamentRepo,
		tournamentPlayerRepo,
		playerRepo,
		hub,
		logger,
	)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Season:      handlers.NewSeasonHandler(seasonService),
		Timer:       handlers.NewTimerHandler(timerService),
		Removal:     handlers.NewRemovalHandler(removalService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:   handlers.NewWebSocketHandler(hub, logger),
	}

	router := api.InitRoutes(h, []byte(cfg.JWTSecretKey))
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

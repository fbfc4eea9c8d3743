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

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
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

	// Инициализация WebSocket Hub: он же — sink доменных событий.
	wsHub := events.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	clock := clockwork.NewRealClock()

	// Инициализация репозиториев
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	contractRepo := repositories.NewPostgresContractRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	playoffRepo := repositories.NewPostgresPlayoffRepository(dbConn)
	bidRepo := repositories.NewPostgresBidRepository(dbConn)
	tradeRepo := repositories.NewPostgresTradeRepository(dbConn)
	draftRepo := repositories.NewPostgresDraftRepository(dbConn)
	waiverRepo := repositories.NewPostgresWaiverRepository(dbConn)
	injuryRepo := repositories.NewPostgresInjuryRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	leagueService := services.NewLeagueService(dbConn, leagueRepo, teamRepo, bidRepo, wsHub)
	teamService := services.NewTeamService(dbConn, leagueRepo, teamRepo, gameRepo, wsHub)
	rosterService := services.NewRosterService(dbConn, leagueRepo, teamRepo, playerRepo, contractRepo, wsHub)
	scheduleService := services.NewScheduleService(dbConn, leagueRepo, teamRepo, seasonRepo, gameRepo, playoffRepo, cfg.CrossDivisionGames, wsHub)
	gameService := services.NewGameService(dbConn, gameRepo, seasonRepo, playoffRepo, wsHub)
	standingsService := services.NewStandingsService(teamRepo, seasonRepo, gameRepo)
	playoffService := services.NewPlayoffService(dbConn, leagueRepo, teamRepo, seasonRepo, gameRepo, playoffRepo, standingsService, wsHub)
	freeAgencyService := services.NewFreeAgencyService(
		dbConn,
		leagueRepo,
		teamRepo,
		playerRepo,
		contractRepo,
		bidRepo,
		seasonRepo,
		standingsService,
		clock,
		cfg.AuctionWindow,
		logger,
		wsHub,
	)
	tradeService := services.NewTradeService(dbConn, leagueRepo, teamRepo, playerRepo, contractRepo, draftRepo, tradeRepo, wsHub)
	draftService := services.NewDraftService(dbConn, leagueRepo, teamRepo, playerRepo, contractRepo, seasonRepo, draftRepo, standingsService, wsHub)
	waiverService := services.NewWaiverService(dbConn, leagueRepo, teamRepo, playerRepo, contractRepo, waiverRepo, clock, wsHub)
	injuryService := services.NewInjuryService(dbConn, leagueRepo, playerRepo, injuryRepo, clock, wsHub)
	logger.Info("services initialized")

	// Фоновый цикл резолюции свободных агентов
	go func() {
		ticker := time.NewTicker(cfg.FASweepInterval)
		defer ticker.Stop()
		logger.Info("free agency sweep started", slog.Duration("interval", cfg.FASweepInterval))

		for range ticker.C {
			if err := freeAgencyService.ResolveAll(context.Background()); err != nil {
				logger.Error("free agency sweep failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	teamHandler := handlers.NewTeamHandler(teamService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	gameHandler := handlers.NewGameHandler(gameService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	playoffHandler := handlers.NewPlayoffHandler(playoffService)
	freeAgencyHandler := handlers.NewFreeAgencyHandler(freeAgencyService)
	tradeHandler := handlers.NewTradeHandler(tradeService)
	draftHandler := handlers.NewDraftHandler(draftService)
	waiverHandler := handlers.NewWaiverHandler(waiverService)
	injuryHandler := handlers.NewInjuryHandler(injuryService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		leagueHandler,
		teamHandler,
		rosterHandler,
		scheduleHandler,
		gameHandler,
		standingsHandler,
		playoffHandler,
		freeAgencyHandler,
		tradeHandler,
		draftHandler,
		waiverHandler,
		injuryHandler,
		webSocketHandler,
	)
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

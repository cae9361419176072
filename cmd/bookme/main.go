package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/bookme/internal/application"
	"github.com/example/bookme/internal/config"
	httptransport "github.com/example/bookme/internal/http"
	"github.com/example/bookme/internal/logging"
	"github.com/example/bookme/internal/persistence"
	"github.com/example/bookme/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Environment)

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := sqlite.NewUserRepository(storage)
	roomRepo := sqlite.NewRoomRepository(storage)
	bookingRepo := sqlite.NewBookingRepository(storage)

	authService := application.NewAuthServiceWithLogger(userRepo, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookingRepo, roomRepo, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, bookingRepo, idGenerator, now, logger)

	if cfg.AdminUsername != "" {
		if _, err := authService.EnsureUser(context.Background(), cfg.AdminUsername, cfg.AdminPassword, persistence.RoleAdmin); err != nil {
			logger.Error("failed to seed admin account", "error", err)
			os.Exit(1)
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings: httptransport.NewBookingHandler(bookingService, logger),
		Rooms:    httptransport.NewRoomHandler(roomService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireUser(authService, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arthurobs542/clock-timer/internal/config"
	appHTTP "github.com/arthurobs542/clock-timer/internal/handler/http"
	"github.com/arthurobs542/clock-timer/internal/pkg/database"
	"github.com/arthurobs542/clock-timer/internal/pkg/jwt"
	"github.com/arthurobs542/clock-timer/internal/pkg/sse"
	"github.com/arthurobs542/clock-timer/internal/repository/postgresql"
	clockService "github.com/arthurobs542/clock-timer/internal/service/clock"
	notificationService "github.com/arthurobs542/clock-timer/internal/service/notification"
	userService "github.com/arthurobs542/clock-timer/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	clockRepo := postgresql.NewClockRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	hub := sse.NewHub()

	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	defer notifSvc.Stop()

	clockSvc := clockService.NewClockService(
		db,
		clockRepo,
		notificationService.NewClockNotifier(notifSvc),
		cfg.App.Timezone,
	)
	userSvc := userService.NewUserService(userRepo)

	clockHandler := appHTTP.NewClockHandler(clockSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifSvc, jwtService)
	userHandler := appHTTP.NewUserHandler(userSvc)

	router := appHTTP.NewRouter(
		jwtService,
		clockHandler,
		notificationHandler,
		userHandler,
		[]string{cfg.App.FrontendURL},
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

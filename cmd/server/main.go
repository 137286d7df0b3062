package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/config"
	"github.com/wrenchworks/repair-shop-service/internal/db"
	"github.com/wrenchworks/repair-shop-service/internal/db/repository"
	"github.com/wrenchworks/repair-shop-service/internal/handler"
	"github.com/wrenchworks/repair-shop-service/internal/report"
	"github.com/wrenchworks/repair-shop-service/internal/router"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
	"github.com/wrenchworks/repair-shop-service/internal/websockets"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize database
	database, err := db.NewPostgres(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Run database migrations
	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatal("failed to run database migrations", zap.Error(err))
	}

	// Initialize the dashboard order feed
	hub := websockets.NewHub(log)
	go hub.Run()

	repos := repository.NewRepositories(database)

	authService := service.NewAuthService(repos.User)
	clientService := service.NewClientService(repos.Client)
	partService := service.NewPartService(repos.Part)
	orderService := service.NewOrderService(repos.Order, repos.Client, repos.User, hub)
	mailer := report.NewSMTPMailer(cfg.SMTP)
	reportService := service.NewReportService(repos.Stats, repos.Order, repos.Client, mailer)

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.ExpiresIn)

	renderer, err := view.New(cfg.Server.TemplatesDir, log)
	if err != nil {
		log.Fatal("failed to load templates", zap.Error(err))
	}

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService, sessions, renderer, log),
		Client:  handler.NewClientHandler(clientService, renderer, log),
		Part:    handler.NewPartHandler(partService, renderer, log),
		Order:   handler.NewOrderHandler(orderService, clientService, partService, renderer, log),
		User:    handler.NewUserHandler(authService, renderer, log),
		Report:  handler.NewReportHandler(reportService, orderService, cfg.SMTP.ReportsTo, renderer, log),
		OrderWS: handler.NewWSHandler(hub, log),
	}

	r := router.New(handlers, sessions, renderer, log)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server starting", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited properly")
}

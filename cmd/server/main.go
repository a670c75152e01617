package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openshelf/library-management/internal/api/controller"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/api/service"
	"openshelf/library-management/internal/config"
	"openshelf/library-management/internal/db"
	"openshelf/library-management/internal/logger"
	"openshelf/library-management/internal/notify"
	"openshelf/library-management/internal/repository"
	"openshelf/library-management/internal/server"
	"openshelf/library-management/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Println(cfg)

	// Initialize telemetry. The collector is optional; without one the
	// service still runs with console logging only.
	shutdownOtel, err := telemetry.InitOtel()
	if err != nil {
		log.Printf("telemetry disabled: %v", err)
		shutdownOtel = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownOtel(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init()

	// Initialize SQLite DB
	pool, err := db.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open sqlite db: %v", err)
	}
	defer pool.Close()
	if err := db.Initialize(pool); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	// Create repositories
	userRepo := apirepository.NewUserRepository(pool)
	branchRepo := apirepository.NewBranchRepository(pool)
	bookRepo := apirepository.NewBookRepository(pool)
	loanRepo := apirepository.NewLoanRepository(pool)
	fineRepo := apirepository.NewFineRepository(pool)
	notifRepo := apirepository.NewNotificationRepository(pool)
	sessionRepo := repository.NewSessionRepository(rdb)
	catalogCache := repository.NewCatalogCache(rdb)

	// Create the notification hub and reminder worker
	hub := notify.NewHub(notifRepo, cfg.Auth.JWTSecret)
	go hub.Run(ctx)

	// Create services
	authService := service.NewAuthService(userRepo, branchRepo, sessionRepo, cfg.Auth.JWTSecret)
	bookService := service.NewBookService(bookRepo, loanRepo, branchRepo, catalogCache)
	loanService := service.NewLoanService(loanRepo, userRepo, cfg.Loans, hub)
	fineService := service.NewFineService(fineRepo)
	userService := service.NewUserService(userRepo, loanRepo, fineRepo, branchRepo)

	worker := notify.NewWorker(loanRepo, hub, cfg.Loans)
	worker.Start(ctx)

	// Create controllers
	authController := controller.NewAuthController(authService)
	bookController := controller.NewBookController(bookService, loanService, fineService)
	userController := controller.NewUserController(userService)

	// Create the Gin-based server
	srv := server.NewServer(authController, bookController, userController, hub)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("http server started on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lorehub/internal/cache"
	"lorehub/internal/config"
	"lorehub/internal/database"
	"lorehub/internal/handler"
	"lorehub/internal/queue"
	appredis "lorehub/internal/redis"
	"lorehub/internal/repository"
	"lorehub/internal/service"
	"lorehub/internal/worker"
	"lorehub/internal/ws"
)

func Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Postgres
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis (comment cache + update stream). Optional: without
	// it the server still runs, just with no cache and no live updates.
	var commentCache cache.CommentCache
	var publisher *queue.RedisPublisher
	var consumer *queue.RedisConsumer
	if cfg.RedisURL != "" {
		redisClient, err := appredis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		defer redisClient.Close()

		commentCache = cache.NewCommentCache(redisClient.Client)
		publisher = queue.NewPublisher(redisClient.Client)
		consumer = queue.NewConsumer(redisClient.Client)
	} else {
		log.Println("REDIS_URL not set; running without comment cache and live updates")
	}

	// 4. Websocket hub for best-effort user updates
	hub := ws.NewHub()
	go hub.Run(ctx)

	// 5. Workers consuming the update stream into the hub
	var manager *worker.Manager
	if consumer != nil {
		manager = worker.NewManager(consumer, worker.NewHandler(hub), worker.ManagerConfig{
			WorkerCount: cfg.WorkerCount,
		})
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	}

	// 6. Repositories and services
	txManager := database.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	var updatePublisher service.UpdatePublisher
	if publisher != nil {
		updatePublisher = publisher
	}

	messageService := service.NewMessageService(messageRepo, userRepo, txManager, updatePublisher)

	var moderation service.ModerationClient
	if cfg.ModerationURL != "" {
		moderation = service.NewHTTPModerationClient(cfg.ModerationURL, cfg.ModerationAPIKey)
	}

	commentService := service.NewCommentService(
		commentRepo, reactionRepo, targetRepo, userRepo,
		txManager, messageService, moderation, commentCache,
	)
	targetService := service.NewTargetService(targetRepo)
	userService := service.NewUserService(userRepo)

	// 7. HTTP surface
	router := NewRouter(RouterConfig{
		CommentHandler: handler.NewCommentHandler(commentService),
		MessageHandler: handler.NewMessageHandler(messageService),
		TargetHandler:  handler.NewTargetHandler(targetService),
		UserHandler:    handler.NewUserHandler(userService),
		WSHandler:      handler.NewWSHandler(hub),
		JWTSecret:      cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	// 8. Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

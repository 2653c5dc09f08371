package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailymillions/internal/cache"
	"dailymillions/internal/clock"
	"dailymillions/internal/config"
	"dailymillions/internal/handlers"
	"dailymillions/internal/repository"
	"dailymillions/internal/services"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize logging
	defer logger.Init("dailymillions", cfg.Log.Verbose, false, io.Discard).Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Set up the civil clock for the draw timezone
	drawClock, err := clock.New(cfg.Draws.Timezone)
	if err != nil {
		logger.Fatalf("Failed to load draw timezone: %v", err)
	}

	// 4. Connect to the results collection
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	source, err := repository.ConnectMongo(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := source.Close(closeCtx); err != nil {
			logger.Errorf("Error disconnecting MongoDB: %v", err)
		}
	}()

	// 5. Build the cache, repository and service
	resultsCache := repository.NewResultsCache(cache.Options{
		DefaultTTL:    cfg.Cache.DefaultTTL,
		SweepInterval: cfg.Cache.SweepInterval,
	})
	repo := repository.NewResultsRepository(source, resultsCache, repository.Options{
		LatestTTL:    cfg.Cache.LatestTTL,
		DefaultTTL:   cfg.Cache.DefaultTTL,
		QueryTimeout: cfg.Mongo.QueryTimeout,
	})
	resultsService := services.NewResultsService(repo, drawClock, cfg.Draws.ForceComingSoon)
	if cfg.Draws.ForceComingSoon {
		logger.Warningf("draws.force_coming_soon is set; pages will show the coming-soon state")
	}

	// 6. Start the background janitor that sweeps expired cache entries
	go resultsCache.Run(ctx)

	// 7. Set up the Gin router and register routes
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	if cfg.Server.Mode == gin.DebugMode {
		pprof.Register(r)
	}

	httpHandler := handlers.NewHTTPHandler(resultsService, repo, resultsCache, cfg.Cache.APIKey)
	httpHandler.RegisterPublicRoutes(r)

	adminRoutes := r.Group("/")
	adminRoutes.Use(httpHandler.AdminMiddleware())
	httpHandler.RegisterAdminRoutes(adminRoutes)
	if cfg.Cache.APIKey == "" {
		logger.Warningf("cache.api_key is empty; admin cache routes will reject every request")
	}

	// 8. Run the server until interrupted
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Server starting on http://localhost:%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

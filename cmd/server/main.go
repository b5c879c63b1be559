package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adxlogistics/freight-rate-engine/internal/cache"
	"github.com/adxlogistics/freight-rate-engine/internal/config"
	"github.com/adxlogistics/freight-rate-engine/internal/database"
	"github.com/adxlogistics/freight-rate-engine/internal/geo"
	"github.com/adxlogistics/freight-rate-engine/internal/handler"
	"github.com/adxlogistics/freight-rate-engine/internal/mapbox"
	"github.com/adxlogistics/freight-rate-engine/internal/middleware"
	"github.com/adxlogistics/freight-rate-engine/internal/repository"
	"github.com/adxlogistics/freight-rate-engine/internal/service"
)

const geocodeCacheTTL = 30 * 24 * time.Hour

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// The provider credential is a startup requirement, not a
	// per-request concern.
	if strings.TrimSpace(cfg.MapboxToken) == "" {
		log.Fatal().Msg("MAPBOX_TOKEN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	gates, err := geo.LoadGates(cfg.TollGatesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load toll gate reference data")
	}
	log.Info().Str("version", gates.Version).Int("gates", len(gates.Gates)).Msg("toll gates loaded")

	mapboxClient, err := mapbox.NewClient(mapbox.Config{
		Token:   cfg.MapboxToken,
		BaseURL: cfg.MapboxBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mapbox client")
	}

	var geocodeCache *cache.GeocodeCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		geocodeCache = cache.NewGeocodeCache(rdb, geocodeCacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("geocode cache enabled")
	}

	rulesetRepo := repository.NewRulesetRepository(pool)
	ruleStore := service.NewRuleStore(rulesetRepo)
	rateService := service.NewRateService(ruleStore)
	routeService := service.NewRouteFeatureService(mapboxClient, geocodeCache, gates.Gates, cfg.TollGateFeeAED)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	rateHandler := handler.NewRateHandler(rateService)
	routeHandler := handler.NewRouteHandler(routeService)
	rulesetHandler := handler.NewRulesetHandler(ruleStore, rulesetRepo)

	api := router.Group("/api/v1")
	{
		api.POST("/rates/breakdown", rateHandler.GetBreakdown)
		api.POST("/routes/features", routeHandler.GetFeatures)
		api.GET("/tenants/:tenant_id/ruleset", rulesetHandler.GetRuleset)
		api.PUT("/tenants/:tenant_id/ruleset", rulesetHandler.PutRuleset)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

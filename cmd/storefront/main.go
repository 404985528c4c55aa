package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/northwind-labs/storefront/api"
	"github.com/northwind-labs/storefront/config"
	"github.com/northwind-labs/storefront/internal/analytics"
	"github.com/northwind-labs/storefront/internal/cache"
	"github.com/northwind-labs/storefront/internal/cms"
	"github.com/northwind-labs/storefront/internal/commerce"
	"github.com/northwind-labs/storefront/internal/content"
	"github.com/northwind-labs/storefront/internal/logger"
	"github.com/northwind-labs/storefront/internal/storefront"
	"github.com/northwind-labs/storefront/model"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file (TOML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Optional shared redis tier for the response cache. When redis is down
	// the store runs on its in-process tier alone.
	var redisClient *redis.Client
	if cfg.Cache.Enabled && cfg.Cache.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Cache.RedisAddr,
			Password:     cfg.Cache.RedisPassword,
			DB:           cfg.Cache.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, caching runs in-process only", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
			log.Info("Redis connected", zap.String("addr", cfg.Cache.RedisAddr))
		}
	}

	store := cache.New(cache.Config{
		Enabled:     cfg.Cache.Enabled,
		CategoryTTL: cfg.Cache.CategoryTTL,
		ContentTTL:  cfg.Cache.ContentTTL,
	}, redisClient, log)

	commerceClient, err := commerce.NewClient(commerce.Config{
		BaseURL:         cfg.Commerce.BaseURL,
		AuthURL:         cfg.Commerce.AuthURL,
		ClientID:        cfg.Commerce.ClientID,
		ClientSecret:    cfg.Commerce.ClientSecret,
		Timeout:         cfg.Commerce.Timeout,
		MaxResponseSize: cfg.Commerce.MaxResponseSize,
	})
	if err != nil {
		log.Fatal("Failed to build commerce client", zap.Error(err))
	}

	slotKeyPrefixes := make(map[string]string)
	for _, site := range cfg.Sites {
		if site.SlotKeyPrefix != "" {
			slotKeyPrefixes[site.ID] = site.SlotKeyPrefix
		}
	}
	cmsClient, err := cms.NewClient(cms.Config{
		BaseURL:         cfg.CMS.BaseURL,
		HubName:         cfg.CMS.HubName,
		DefaultLocale:   cfg.CMS.DefaultLocale,
		SlotKeyPrefixes: slotKeyPrefixes,
		Timeout:         cfg.CMS.Timeout,
		MaxResponseSize: cfg.CMS.MaxResponseSize,
	})
	if err != nil {
		log.Fatal("Failed to build CMS client", zap.Error(err))
	}

	// The cache layers over the read-mostly upstreams; search and wishlist
	// calls always go through live.
	categories := store.WrapCategoryProvider(commerceClient)
	contents := store.WrapContentFetcher(cmsClient)

	var registry *content.Registry
	if cfg.CMS.RegistryFile != "" {
		registry, err = content.NewFileRegistry(cfg.CMS.RegistryFile)
		if err != nil {
			log.Fatal("Failed to load component registry", zap.Error(err))
		}
	} else {
		registry = content.NewRegistry()
	}
	resolver := content.NewResolver(registry, contents)

	analyticsService := analytics.NewService(cfg.Analytics.DataFile, log)

	sites := make([]model.Site, len(cfg.Sites))
	for i, sc := range cfg.Sites {
		sites[i] = model.Site{
			ID:             sc.ID,
			Name:           sc.Name,
			DefaultLocale:  sc.Locale,
			Currency:       sc.Currency,
			CommerceSiteID: sc.CommerceSiteID,
			SlotKeyPrefix:  sc.SlotKeyPrefix,
		}
	}
	app, err := storefront.NewApp(sites)
	if err != nil {
		log.Fatal("Failed to build site registry", zap.Error(err))
	}

	listings := storefront.NewService(storefront.Config{
		PageSize:       cfg.Grid.PageSize,
		MobilePageSize: cfg.Grid.MobilePageSize,
	}, app, commerceClient, categories, contents, analyticsService, log)

	router := gin.New()
	api.SetupRoutes(router, api.Dependencies{
		Listings:         listings,
		Sites:            app,
		Wishlists:        commerceClient,
		Resolver:         resolver,
		Registry:         registry,
		Analytics:        analyticsService,
		Cache:            store,
		Logger:           log,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := analyticsService.Flush(); err != nil {
		log.Warn("Failed to flush analytics on shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

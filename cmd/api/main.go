package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"stockroom-backend/api/routes"
	"stockroom-backend/internal/archive"
	"stockroom-backend/internal/catalog"
	"stockroom-backend/internal/commit"
	"stockroom-backend/internal/export"
	"stockroom-backend/internal/users"
	"stockroom-backend/internal/worklist"
	"stockroom-backend/pkg/config"
	"stockroom-backend/pkg/db"
	"stockroom-backend/pkg/logger"
	"stockroom-backend/pkg/metrics"
	"stockroom-backend/pkg/migrate"
	"stockroom-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	worklistRepo := worklist.NewRepository(dbClient.DB())
	archiveRepo := archive.NewRepository(dbClient.DB())

	importLock, err := catalog.NewRedisImportLock(
		redisClient,
		redisClient.LockKey(catalog.ImportLockKey),
		cfg.Archive.ImportLock,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create import lock", err)
		os.Exit(1)
	}

	importer, err := catalog.NewImporter(catalogRepo, dbClient, importLock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog importer", err)
		os.Exit(1)
	}

	worklistService, err := worklist.NewService(worklistRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create worklist service", err)
		os.Exit(1)
	}

	archiveService, err := archive.NewService(archiveRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create archive service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	commitMetrics := metrics.NewCommitMetrics(registry)

	commitService, err := commit.NewService(
		dbClient,
		worklistRepo,
		catalogRepo,
		archiveRepo,
		commitMetrics,
		logg,
		commit.WithLockTimeout(cfg.Commit.LockTimeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commit service", err)
		os.Exit(1)
	}

	exportWriter, err := export.NewWriter(cfg.Archive.StorageDir)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare export directory", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisPinger:     redisClient,
			WorklistService: worklistService,
			CommitService:   commitService,
			ArchiveService:  archiveService,
			ArchiveRepo:     archiveRepo,
			CatalogRepo:     catalogRepo,
			Importer:        importer,
			UsersRepo:       usersRepo,
			ExportWriter:    exportWriter,
			MetricsGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

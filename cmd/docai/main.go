package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/ai"
	"github.com/Drago-03/Documentation.AI/internal/config"
	"github.com/Drago-03/Documentation.AI/internal/db"
	"github.com/Drago-03/Documentation.AI/internal/embedcache"
	"github.com/Drago-03/Documentation.AI/internal/filestore"
	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/handler"
	"github.com/Drago-03/Documentation.AI/internal/job"
	"github.com/Drago-03/Documentation.AI/internal/middleware"
	"github.com/Drago-03/Documentation.AI/internal/packager"
	"github.com/Drago-03/Documentation.AI/internal/rag"
	"github.com/Drago-03/Documentation.AI/internal/repo"
	"github.com/Drago-03/Documentation.AI/internal/schedule"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docai",
		Short: "GitHub repository documentation generator",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the documentation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return conn, nil
}

// buildEmbedder chains the configured providers and wraps them with the
// in-memory and database caches. It returns nil when retrieval is disabled.
func buildEmbedder(cfg config.EmbeddingConfig, cacheRepo *repo.EmbeddingCacheRepo) (ai.IEmbedder, error) {
	if !cfg.Enabled || len(cfg.Providers) == 0 {
		return nil, nil
	}
	entries := make([]ai.EmbedderEntry, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		provider, err := ai.NewEmbedProvider(p.Provider, p.Data)
		if err != nil {
			return nil, fmt.Errorf("init embed provider %s: %w", p.Name, err)
		}
		entries = append(entries, ai.EmbedderEntry{Name: p.Name, Embedder: ai.NewEmbedder(provider, p.Model)})
	}
	embedder := ai.NewGroupEmbedder(entries)
	if cfg.DBCache {
		embedder = embedcache.WrapDB(embedder, cacheRepo)
	}
	return embedcache.WrapLRU(embedder, cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second), nil
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	log := logutil.GetLogger(context.Background())
	log.Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.Bool("embedding", cfg.Embedding.Enabled),
	)

	jobRepo := repo.NewAnalysisJobRepo(conn)
	cacheRepo := repo.NewRepositoryCacheRepo(conn)
	feedbackRepo := repo.NewFeedbackRepo(conn)
	embeddingRepo := repo.NewEmbeddingCacheRepo(conn)

	client, err := github.NewClient(
		github.WithToken(cfg.GitHub.Token),
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithRateLimit(cfg.GitHub.RequestsPerSecond),
		github.WithTimeout(time.Duration(cfg.GitHub.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("init github client: %w", err)
	}
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	embedder, err := buildEmbedder(cfg.Embedding, embeddingRepo)
	if err != nil {
		return err
	}
	pipeline := rag.NewPipeline(embedder, rag.WithTaskTypes(cfg.Embedding.TaskType, ""))
	if !pipeline.Available() {
		log.Info("semantic layer disabled: no embedding provider configured")
	}

	analysisOpts := []service.AnalysisServiceOption{service.WithRAG(pipeline)}
	if cfg.Cache.Enabled {
		analysisOpts = append(analysisOpts, service.WithAnalysisCache(cacheRepo, time.Duration(cfg.Cache.TTLMinutes)*time.Minute))
	}
	pkgr := packager.New(filepath.Join(cfg.WorkDir, "packages"))
	analysisService := service.NewAnalysisService(jobRepo, client, pkgr, store, analysisOpts...)
	jobService := service.NewJobService(jobRepo, store, cfg.HTTP.DefaultPerPage)
	healthService := service.NewHealthService(service.HealthDeps{
		DB:              db.NewPinger(conn),
		GitHubAuthed:    client.Authenticated(),
		RAG:             pipeline,
		ArchiveType:     store.Type(),
		GitHubTokenSet:  cfg.GitHub.Token != "",
		GeminiKeySet:    cfg.GeminiAPIKey != "",
		SecretKeySet:    cfg.SecretKey != "",
		AvailableRoutes: handler.PublicEndpoints,
	})

	deps := handler.RouterDeps{
		Index:        handler.NewIndexHandler(),
		Analysis:     handler.NewAnalysisHandler(analysisService),
		Jobs:         handler.NewJobHandler(jobService),
		Health:       handler.NewHealthHandler(healthService),
		Feedback:     handler.NewFeedbackHandler(service.NewFeedbackService(jobRepo, feedbackRepo)),
		Insight:      handler.NewInsightHandler(service.NewInsightService(jobRepo, pipeline)),
		AnalyzeLimit: middleware.RateLimit(cfg.HTTP.AnalyzePerMin),
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.AccessLog(),
			middleware.CORS(cfg.HTTP.CORSOrigins),
			handler.NotFound(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanupJobs := []schedule.Job{
		job.NewJobCleanupJob(jobRepo, time.Duration(cfg.Cleanup.JobMaxAgeDays)*24*time.Hour),
		job.NewPackageCleanupJob(store, time.Duration(cfg.Cleanup.PackageMaxAgeHours)*time.Hour),
		job.NewCacheCleanupJob(cacheRepo, embeddingRepo, time.Duration(cfg.Cleanup.EmbeddingCacheMaxAgeDays)*24*time.Hour),
	}
	for _, j := range cleanupJobs {
		if err := scheduler.AddJob(j, cfg.Cleanup.Spec); err != nil {
			return fmt.Errorf("schedule %s: %w", j.Name(), err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	log.Info("http server listening", zap.String("addr", addr))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server stopping...")
	return nil
}

package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/mylog/app/api"
	"github.com/lysyi3m/mylog/app/catalog"
	"github.com/lysyi3m/mylog/app/cfg"
	"github.com/lysyi3m/mylog/app/database"
	"github.com/lysyi3m/mylog/app/feed"
	"github.com/lysyi3m/mylog/app/source"
	"github.com/lysyi3m/mylog/app/tasks"
)

const retryDelay = time.Second

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	categories, err := loadCategories(appCfg.CategoriesFile)
	if err != nil {
		slog.Error("Failed to load categories", "error", err)
		os.Exit(1)
	}

	switch appCfg.Command {
	case cfg.CommandImport:
		err = runImport(appCfg, categories)
	default:
		err = runServe(appCfg, categories)
	}

	if err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func loadCategories(path string) (*catalog.Categories, error) {
	if path == "" {
		return catalog.DefaultCategories()
	}
	return catalog.LoadCategories(path)
}

func runServe(appCfg *cfg.Cfg, categories *catalog.Categories) error {
	slog.Info("Starting MyLog", "version", appCfg.Version)

	articles, kind, err := source.Load(source.Options{
		Kind:        source.Kind(appCfg.Source),
		ArticlesDir: appCfg.ArticlesDir,
		DBPath:      appCfg.DBPath,
	}, categories)
	if err != nil {
		return err
	}

	articleCatalog, err := catalog.New(articles)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	slog.Info("Catalog loaded", "source", string(kind), "articles", articleCatalog.Len())

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	generator := feed.NewGenerator(appCfg.SiteTitle, appCfg.BaseURL, appCfg.Version)
	handler := api.NewHandler(articleCatalog, categories, generator, appCfg.SiteTitle, string(kind), appCfg.Version)

	router, err := api.NewServer(handler)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("MyLog shutdown complete")
	return serveErr
}

func runImport(appCfg *cfg.Cfg, categories *catalog.Categories) error {
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "migration", version, "dirty", dirty)

	articleRepo := database.NewArticleRepository(db)

	configCache, err := loadFeedConfigs(appCfg.Import)
	if err != nil {
		return err
	}

	timeout := time.Duration(appCfg.Import.Timeout) * time.Second
	scheduler := tasks.NewScheduler(appCfg.Import.Workers, timeout, retryDelay)
	scheduler.Start()
	defer scheduler.Stop()

	httpClient := &http.Client{}
	parser := feed.NewParser()
	filterer := feed.NewFilterer()
	contentExtractor := feed.NewContentExtractor()

	enqueued := 0
	for _, feedConfig := range configCache.GetEnabledConfigs() {
		feedConfig.Settings.DefaultCategory = cmp.Or(feedConfig.Settings.DefaultCategory, appCfg.Import.DefaultCategory)
		task := tasks.NewImportFeedTask(feedConfig, httpClient, parser, filterer, contentExtractor, articleRepo, categories, appCfg.UserAgent)
		if err := scheduler.EnqueueTask(task); err != nil {
			return fmt.Errorf("failed to enqueue feed %s: %w", feedConfig.Name, err)
		}
		enqueued++
	}

	if appCfg.Import.FromDir != "" {
		if err := scheduler.EnqueueTask(tasks.NewImportDirTask(appCfg.Import.FromDir, articleRepo, categories)); err != nil {
			return fmt.Errorf("failed to enqueue directory %s: %w", appCfg.Import.FromDir, err)
		}
		enqueued++
	}

	if enqueued == 0 {
		slog.Warn("Nothing to import: pass --feed, --from-dir or add configurations to the feeds directory", "feeds_dir", appCfg.Import.FeedsDir)
		return nil
	}

	slog.Info("Import started", "tasks", enqueued, "workers", appCfg.Import.Workers)
	scheduler.Wait()

	count, err := articleRepo.GetArticleCount()
	if err != nil {
		return err
	}

	failed := scheduler.Failed()
	for _, task := range failed {
		slog.Error("Import task failed", "type", task.GetType(), "source", task.GetSource(), "retries", task.GetRetryCount())
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d import tasks failed", len(failed), enqueued)
	}

	slog.Info("Import complete", "tasks", enqueued, "articles", count)
	return nil
}

// loadFeedConfigs reads the feeds directory and adds one enabled
// configuration per --feed URL not already configured there.
func loadFeedConfigs(importCfg cfg.ImportCfg) (*feed.ConfigCache, error) {
	configCache := feed.NewConfigCache(importCfg.FeedsDir)
	if err := configCache.Run(); err != nil {
		return nil, fmt.Errorf("failed to load feed configurations: %w", err)
	}

	for _, feedURL := range importCfg.Feeds {
		name := feedURL
		if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
			name = cmp.Or(feed.Slugify(u.Host+u.Path), feedURL)
		}

		if existing, err := configCache.GetConfig(name); err == nil {
			slog.Warn("Feed already configured, ignoring --feed", "feed", name, "url", feedURL, "configured_url", existing.URL)
			continue
		}

		feedConfig := &feed.Config{
			Name: name,
			URL:  feedURL,
			Settings: feed.ConfigSettings{
				Enabled:         true,
				Timeout:         importCfg.Timeout,
				FetchContent:    importCfg.FetchContent,
				DefaultCategory: importCfg.DefaultCategory,
			},
		}
		if err := configCache.AddConfig(feedConfig); err != nil {
			return nil, fmt.Errorf("invalid feed %s: %w", feedURL, err)
		}
	}

	slog.Debug("Feed configurations loaded", "count", configCache.GetConfigCount())
	return configCache, nil
}

package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/config"
	"github.com/mrlokans/cocktails/internal/database"
	"github.com/mrlokans/cocktails/internal/database/kv"
	"github.com/mrlokans/cocktails/internal/favorites"
	http_controllers "github.com/mrlokans/cocktails/internal/http"
	"github.com/mrlokans/cocktails/internal/notices"
	"github.com/mrlokans/cocktails/internal/scheduler"
	"github.com/mrlokans/cocktails/internal/tasks"
	"github.com/mrlokans/cocktails/internal/thumbnails"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the wired application: the router plus the background workers
// behind it.
type App struct {
	Router    *gin.Engine
	DB        *database.Database
	Favorites *favorites.Store
	Catalog   *catalog.Client

	taskClient *tasks.Client
	sweeper    *scheduler.ThumbnailSweepScheduler
	cancel     context.CancelFunc
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, plain kill sends syscall.SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Build opens storage, starts background workers and assembles the router.
// Call Shutdown and then Close when done.
func Build(cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{
		DB:        db,
		Favorites: favorites.NewStore(kv.NewRepository(db.DB)),
		Catalog: catalog.NewClient(catalog.Options{
			BaseURL:           cfg.Catalog.BaseURL,
			Timeout:           cfg.Catalog.Timeout,
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Burst:             cfg.Catalog.Burst,
		}),
	}
	log.Printf("Catalog: %s", app.Catalog.BaseURL())

	thumbDir := cfg.Thumbnails.Dir
	if thumbDir == "" {
		thumbDir = filepath.Join(filepath.Dir(cfg.Database.Path), "thumbnails")
	}
	thumbCache, err := thumbnails.NewCache(thumbDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize thumbnail cache: %v", err)
		thumbCache = nil
	} else {
		if u, err := url.Parse(app.Catalog.BaseURL()); err == nil && u.Host != "" {
			thumbCache.AllowHosts(u.Host)
		}
		log.Printf("Thumbnail cache initialized at %s", thumbCache.CacheDir())
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	if cfg.Tasks.Enabled && thumbCache != nil {
		app.taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize task queue: %w", err)
		}

		app.taskClient.Register(
			tasks.NewCacheThumbnailQueue(thumbCache),
			tasks.NewSweepThumbnailsQueue(app.Favorites, thumbCache, app.taskClient),
		)
		app.Favorites.OnChange(tasks.ThumbnailHook(app.taskClient, thumbCache))
		go app.taskClient.Start(ctx)

		if cfg.Sweep.Enabled {
			app.sweeper = scheduler.NewThumbnailSweepScheduler(app.taskClient, cfg.Sweep.Schedule)
			if err := app.sweeper.Start(ctx); err != nil {
				log.Printf("WARNING: Thumbnail sweep disabled: %v", err)
				app.sweeper = nil
			}
		}
	} else if thumbCache != nil {
		// Without workers the cache is still trimmed on removal and reset.
		app.Favorites.OnChange(tasks.ThumbnailHook(nil, thumbCache))
	}

	sqlDB, err := db.SQL()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("get SQL DB for sessions: %w", err)
	}
	noticeManager, err := notices.NewManager(sqlDB, notices.Config{
		Lifetime:      cfg.Session.Lifetime,
		SecureCookies: cfg.Session.SecureCookies,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("initialize notices: %w", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		Catalog:       app.Catalog,
		Favorites:     app.Favorites,
		Notices:       noticeManager,
		CSRFSecret:    csrfSecret(cfg.CSRF.Secret),
		SecureCookies: cfg.Session.SecureCookies,
		Version:       version,
	}
	if thumbCache != nil {
		routerCfg.Thumbnails = thumbCache
	}
	if app.taskClient != nil {
		routerCfg.TaskClient = app.taskClient
	}
	if app.sweeper != nil {
		routerCfg.SweepScheduler = app.sweeper
	}
	if len(routerCfg.CSRFSecret) == 0 {
		log.Printf("CSRF protection disabled (set CSRF_SECRET to enable)")
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// Shutdown stops the scheduler and waits for task workers until ctx expires.
func (a *App) Shutdown(ctx context.Context) {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}
}

// Close releases the task and main databases.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.taskClient != nil {
		if err := a.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Cocktails v%s", version)

	app, err := Build(cfg, version)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Close()

	Serve(app.Router, cfg, app.Shutdown)
}

// csrfSecret accepts a hex-encoded key and falls back to the raw bytes.
func csrfSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if decoded, err := hex.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}

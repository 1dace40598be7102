package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/audit"
	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/database"
	auditrepo "github.com/mrlokans/kosync/internal/database/audit"
	"github.com/mrlokans/kosync/internal/database/settings"
	syncrepo "github.com/mrlokans/kosync/internal/database/sync"
	"github.com/mrlokans/kosync/internal/database/users"
	http_controllers "github.com/mrlokans/kosync/internal/http"
	"github.com/mrlokans/kosync/internal/progress"
	"github.com/mrlokans/kosync/internal/scheduler"
	"github.com/mrlokans/kosync/internal/settingsstore"
	"github.com/mrlokans/kosync/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill sends SIGTERM; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after in-flight requests have drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting kosync v%s", version)

	keys, err := auth.NewKeyStore(cfg.Auth)
	if err != nil {
		log.Fatalf("Invalid key storage configuration: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := db.EnsureDefaults(cfg.Bootstrap, auth.HashPassword(cfg.AdminPassword), keys); err != nil {
		log.Fatalf("Failed to bootstrap database: %v", err)
	}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		log.Printf("WARNING: admin is using the default password. Set 'ADMIN_PASSWORD' to change it.")
	}

	userRepo := users.NewRepository(db.DB)
	progressRepo := syncrepo.NewRepository(db.DB)
	settingsStore := settingsstore.New(settings.NewRepository(db.DB))

	accountService := accounts.NewService(userRepo, progressRepo, settingsStore, keys, accounts.Options{
		SelfMatchIgnoreCase: cfg.Auth.SelfMatchIgnoreCase,
	})
	progressService := progress.NewService(progressRepo)
	authenticator := auth.NewAuthenticator(userRepo, keys)

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB))
		log.Printf("Audit trail enabled (retention %d days)", cfg.Audit.RetentionDays)
	}

	var rateLimiter *auth.RateLimiter
	if limiterCfg, ok := auth.RateLimitConfigFromAuth(cfg.Auth); ok {
		rateLimiter = auth.NewRateLimiter(limiterCfg)
		log.Printf("Login rate limiting enabled (%d failures per %v)", limiterCfg.MaxAttempts, limiterCfg.WindowDuration)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var auditScheduler *scheduler.AuditCleanupScheduler
	if cfg.Tasks.Enabled {
		tasksDBPath := tasks.DatabasePath(cfg.Database.Path, cfg.Tasks.DatabasePath)
		taskClient, err = tasks.NewClient(tasksDBPath, tasks.ConfigFromEnv(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		if auditService != nil {
			taskClient.Register(tasks.NewPruneAuditQueue(auditService))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if auditService != nil && cfg.Audit.CleanupSchedule != "" {
			auditScheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
			if err := auditScheduler.Start(taskCtx); err != nil {
				log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
			}
		}
	} else if auditService != nil {
		log.Printf("Task queue disabled; audit events will not be pruned")
	}

	routerCfg := http_controllers.RouterConfig{
		Accounts:       accountService,
		Progress:       progressService,
		Settings:       settingsStore,
		Authenticator:  authenticator,
		RateLimiter:    rateLimiter,
		AuditService:   auditService,
		Database:       db,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		if auditScheduler != nil {
			auditScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}

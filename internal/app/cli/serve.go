package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hogwarts-artifacts/config"
	"hogwarts-artifacts/database"
	"hogwarts-artifacts/internal/api/actuator"
	artifactsapi "hogwarts-artifacts/internal/api/artifacts"
	authapi "hogwarts-artifacts/internal/api/auth"
	usersapi "hogwarts-artifacts/internal/api/users"
	wizardsapi "hogwarts-artifacts/internal/api/wizards"
	routes "hogwarts-artifacts/internal/app/http"
	"hogwarts-artifacts/internal/infra/blob"
	"hogwarts-artifacts/internal/infra/cache"
	"hogwarts-artifacts/internal/infra/chat"
	"hogwarts-artifacts/internal/infra/idworker"
	"hogwarts-artifacts/internal/infra/metrics"
	"hogwarts-artifacts/internal/infra/telemetry"
	artifactsvc "hogwarts-artifacts/internal/services/artifacts"
	authsvc "hogwarts-artifacts/internal/services/auth"
	usersvc "hogwarts-artifacts/internal/services/users"
	wizardsvc "hogwarts-artifacts/internal/services/wizards"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	engine, closeDeps, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDeps()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Handler(engine, cfg.OTel.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", server.Addr), zap.String("base_url", cfg.BaseURL))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// buildEngine connects every collaborator and wires services into handlers.
// The returned func releases the connections.
func buildEngine(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.Seed {
		if err := database.Seed(db, cfg.BcryptCost); err != nil {
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
	}

	store, rdb := cache.New(cfg.Redis)
	if err := store.Ping(ctx); err != nil {
		log.Warn("redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	ids, err := idworker.New(cfg.IDWorkerNode)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	images, err := blob.NewS3Store(ctx, cfg.S3)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	m := metrics.New()

	users := usersvc.NewService(db, authsvc.NewRevoker(store), cfg.BcryptCost)
	auth := authsvc.NewService(users, store, cfg.JWT.Secret, cfg.JWT.TTL)

	artifacts := artifactsvc.NewService(artifactsvc.Deps{
		DB:        db,
		IDs:       ids,
		Chat:      chat.NewOpenAIClient(cfg.AI),
		ChatModel: cfg.AI.Model,
		Images:    images,
		Container: cfg.S3.Bucket,
		Views:     m,
	})

	engine := routes.NewEngine(routes.EngineConfig{BaseURL: cfg.BaseURL, CorsOrigin: cfg.CorsOrigin}, log, routes.Handlers{
		Artifacts: artifactsapi.NewHandler(artifacts),
		Wizards:   wizardsapi.NewHandler(wizardsvc.NewService(db)),
		Users:     usersapi.NewHandler(users),
		Auth:      authapi.NewHandler(auth, users),
		Actuator: actuator.NewHandler(actuator.Info{
			Name:        cfg.OTel.ServiceName,
			Description: "Manage magical artifacts and the wizards who own them.",
			Version:     Version,
		}, m.Registry, map[string]actuator.Pinger{
			"db":    database.Pinger{DB: db},
			"redis": store,
		}),
		Tokens:        auth,
		Authenticator: auth,
	})

	closeDeps := func() {
		_ = rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return engine, closeDeps, nil
}

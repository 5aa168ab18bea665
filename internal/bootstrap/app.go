package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"assettracker-backend/internal/ai"
	"assettracker-backend/internal/assets"
	"assettracker-backend/internal/receipts"
	"assettracker-backend/internal/reminders"
	sharedauth "assettracker-backend/internal/shared/auth"
	"assettracker-backend/internal/shared/config"
	"assettracker-backend/internal/shared/server"
	"assettracker-backend/internal/shared/server/middleware"
	"assettracker-backend/internal/shared/storage/db"
	"assettracker-backend/internal/shared/storage/object"
	localstore "assettracker-backend/internal/shared/storage/object/local"
	s3store "assettracker-backend/internal/shared/storage/object/s3"
	"assettracker-backend/internal/shared/telemetry"
	"assettracker-backend/internal/users"
)

// App holds the constructed application graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
}

// Build constructs the full dependency graph: config, database, object
// store, auth, AI client, repos, services, handlers, router.
func Build(ctx context.Context) (*App, error) {
	cfg := config.Load()

	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := buildObjectStore(ctx, cfg)
	if err != nil {
		dbConn.Close()
		return nil, err
	}

	var verifier sharedauth.Verifier
	if !cfg.AuthDevBypass {
		verifier, err = sharedauth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsJSON)
		if err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("init token verifier: %w", err)
		}
	}

	usersSvc := users.NewService(&users.PGRepo{DB: dbConn})

	assetsHandler := &assets.Handler{Service: &assets.Service{
		Repo:  &assets.PGRepo{DB: dbConn},
		Store: store,
	}}
	remindersHandler := &reminders.Handler{Service: &reminders.Service{
		Repo: &reminders.PGRepo{DB: dbConn},
	}}
	receiptsHandler := &receipts.Handler{Service: &receipts.Service{
		Repo:           &receipts.PGRepo{DB: dbConn},
		Store:          store,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}}

	aiHandler := &ai.Handler{MaxUploadBytes: cfg.MaxUploadBytes, Extractor: &ai.Extractor{}}
	invoker, err := ai.NewBedrockInvoker(ctx, cfg.BedrockRegion)
	if err != nil {
		// Extraction stays dark; everything else runs.
		telemetry.Error("bootstrap.bedrock_unavailable", map[string]any{"error": err.Error()})
	} else {
		aiHandler.Extractor = &ai.Extractor{
			Invoker:  invoker,
			ModelIDs: append([]string{cfg.BedrockModelID}, cfg.FallbackModelIDs...),
		}
	}

	router := server.NewRouter(server.RouterDeps{
		Config:       cfg,
		Verifier:     verifier,
		UserResolver: usersSvc,
		RateLimiter:  middleware.NewRateLimiter(middleware.RateLimitRule{Rate: rate.Limit(25), Burst: 50}),
		Assets:       assetsHandler,
		Reminders:    remindersHandler,
		Receipts:     receiptsHandler,
		AI:           aiHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"dev_bypass":   cfg.AuthDevBypass,
	})

	return &App{Config: cfg, Router: router, DB: dbConn, Store: store}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when OBJECT_STORE=s3")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

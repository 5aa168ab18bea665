package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettracker-backend/internal/ai"
	"assettracker-backend/internal/assets"
	"assettracker-backend/internal/receipts"
	"assettracker-backend/internal/reminders"
	"assettracker-backend/internal/shared/auth"
	"assettracker-backend/internal/shared/config"
	"assettracker-backend/internal/shared/metrics"
	"assettracker-backend/internal/shared/server/middleware"
	"assettracker-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and cross-cutting pieces the router wires
// together. Construction happens in bootstrap; the router only assembles.
type RouterDeps struct {
	Config       config.Config
	Verifier     auth.Verifier
	UserResolver middleware.UserResolver
	RateLimiter  *middleware.RateLimiter

	Assets    *assets.Handler
	Reminders *reminders.Handler
	Receipts  *receipts.Handler
	AI        *ai.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Instrument(),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(deps.RateLimiter))
	}
	deps.AI.RegisterHealth(api)
	api.Use(middleware.Auth(middleware.AuthOptions{
		Verifier:  deps.Verifier,
		Resolver:  deps.UserResolver,
		DevBypass: deps.Config.AuthDevBypass,
		DevUID:    deps.Config.DevUserID,
		DevEmail:  deps.Config.DevUserEmail,
	}))

	deps.Assets.Register(api)
	deps.Reminders.Register(api)
	deps.Receipts.Register(api)
	deps.AI.Register(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

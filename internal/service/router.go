package service

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/hecovacka/internal/auth"
	"github.com/mmynk/hecovacka/internal/middleware"
	"github.com/mmynk/hecovacka/internal/storage"
)

// RouterConfig carries the dependencies of every HTTP route.
type RouterConfig struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Logger        *slog.Logger

	Env  string
	Port int

	// APILimiter guards every /api/ route and AuthLimiter additionally
	// guards /api/auth/. Either may be nil.
	APILimiter  *middleware.RateLimiter
	AuthLimiter *middleware.RateLimiter

	// Realtime serves /ws and Metrics serves /metrics. Either may be nil.
	Realtime http.Handler
	Metrics  http.Handler
}

// NewRouter registers every route on a new ServeMux. Unmatched requests get
// the NotFound envelope.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := NewInfoService(cfg.Env, cfg.Port)
	authSvc := NewAuthService(cfg.Authenticator, cfg.JWTManager, cfg.Store, logger)
	groups := NewGroupService(cfg.Store, logger)
	goals := NewGoalService(cfg.Store, logger)
	progress := NewProgressService(cfg.Store, logger)
	hecovacky := NewHecovackaService(cfg.Store, logger)

	requireAuth := middleware.RequireAuth(cfg.JWTManager)
	optionalAuth := middleware.OptionalAuth(cfg.JWTManager)

	api := func(h http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
		if cfg.APILimiter != nil {
			mws = append([]func(http.Handler) http.Handler{cfg.APILimiter.Middleware}, mws...)
		}
		return middleware.Chain(h, mws...)
	}
	authAPI := func(h http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
		if cfg.AuthLimiter != nil {
			mws = append([]func(http.Handler) http.Handler{cfg.AuthLimiter.Middleware}, mws...)
		}
		return api(h, mws...)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", info.Root)
	mux.HandleFunc("GET /health", info.Health)
	mux.Handle("GET /api", api(info.API))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.Realtime != nil {
		mux.Handle("GET /ws", cfg.Realtime)
	}

	mux.Handle("POST /api/auth/register", authAPI(authSvc.Register))
	mux.Handle("POST /api/auth/login", authAPI(authSvc.Login))
	mux.Handle("GET /api/auth/me", authAPI(authSvc.Me, requireAuth))

	mux.Handle("GET /api/groups", api(groups.ListGroups))
	mux.Handle("POST /api/groups", api(groups.CreateGroup, optionalAuth))
	mux.Handle("GET /api/groups/{groupId}/members", api(groups.GetMembers))

	mux.Handle("GET /api/goals", api(goals.ListGoals))
	mux.Handle("POST /api/goals", api(goals.CreateGoal, optionalAuth))

	mux.Handle("GET /api/progress/goal/{goalId}", api(progress.ListByGoal))
	mux.Handle("POST /api/progress/update", api(progress.Update, optionalAuth))

	mux.Handle("GET /api/hecovacky/{key}", api(hecovacky.ListGrouped))
	mux.Handle("POST /api/hecovacky", api(hecovacky.Send, optionalAuth))

	mux.HandleFunc("/", NotFound)

	return mux
}

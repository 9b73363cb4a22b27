package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/config"
	"github.com/hamim5264/devengine/database"
	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/metrics"
)

const (
	rateLimitSweepInterval = time.Minute
	rateLimitIdleTTL       = 10 * time.Minute
)

// Dependencies are the stores and outbound services the router is built on.
type Dependencies struct {
	Projects  projectStore
	Tags      tagStore
	AppLab    appLabStore
	Users     userStore
	Purchases purchaseStore
	Reviews   reviewStore
	Auth      auth.Authenticator
	Gateway   paymentGateway
	Mailer    contactMailer
	Notifier  purchaseNotifier
	Storage   objectUploader
	Hub       *live.Hub
}

// DatabaseDependencies fills the store fields from the GORM repositories.
func DatabaseDependencies(db database.Database, deps Dependencies) Dependencies {
	deps.Projects = db.ProjectRepo()
	deps.Tags = db.TagRepo()
	deps.AppLab = db.AppLabRepo()
	deps.Users = db.UserRepo()
	deps.Purchases = db.PurchaseRepo()
	deps.Reviews = db.ReviewRepo()
	return deps
}

type Server struct {
	*http.Server
	startupTime time.Time
	stop        chan struct{}
}

func NewServer(settings config.Settings, deps Dependencies) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)
	startupTime := time.Now()
	stop := make(chan struct{})

	router := newRouter(settings, deps, withStartupTime(startupTime), withStop(stop))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime, stop}, nil
}

type router struct {
	startupTime time.Time
	stop        <-chan struct{}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withStop(stop <-chan struct{}) func(*router) {
	return func(r *router) {
		r.stop = stop
	}
}

// registerFeeds tells the hub how to load each admin list.
func registerFeeds(hub *live.Hub, deps Dependencies) {
	hub.Register(live.Projects, func(ctx context.Context) (any, error) {
		return deps.Projects.FindAll(ctx, true)
	})
	hub.Register(live.Tags, func(ctx context.Context) (any, error) {
		return deps.Tags.FindAll(ctx)
	})
	hub.Register(live.AppLab, func(ctx context.Context) (any, error) {
		return deps.AppLab.FindAll(ctx, true)
	})
}

func newRouter(settings config.Settings, deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	if deps.Hub == nil {
		deps.Hub = live.NewHub()
	}
	registerFeeds(deps.Hub, deps)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metrics.InstrumentHandler)

	chiRouter.Use(CORSCheckMiddleware(settings.AcceptedOrigins))
	chiRouter.Use(corsMiddleware(settings.AcceptedOrigins))

	handlers := initializeHandlers(settings, deps, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Auth, settings.SessionCookie)

	limiter := newRateLimiter(settings.RateLimitRPS, settings.RateLimitBurst)
	if router.stop != nil {
		limiter.startCleanup(rateLimitSweepInterval, rateLimitIdleTTL, router.stop)
	}

	feeds := live.NewServer(deps.Hub, settings.AcceptedOrigins)

	setupRoutes(chiRouter, handlers, authMiddleware, limiter, feeds, settings.LogFormat)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")
	close(s.stop)

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}

// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "guildapply/docs" // swagger docs
	"guildapply/internal/cache"
	"guildapply/internal/catalog"
	"guildapply/internal/config"
	"guildapply/internal/database"
	"guildapply/internal/discord"
	"guildapply/internal/featureflags"
	"guildapply/internal/middleware"
	"guildapply/internal/models"
	"guildapply/internal/notifications"
	"guildapply/internal/repository"
	"guildapply/internal/service"
	"guildapply/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OAuthProvider is the login collaborator: it builds the consent URL and
// trades a code for an identity.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.Identity, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	sessions       *session.Manager
	states         *session.StateStore
	oauth          OAuthProvider
	events         *notifications.RedisPublisher
	featureFlags   *featureflags.Manager
	access         *service.AccessService
	applications   *service.ApplicationService
	roles          *service.RoleService
}

// Option overrides a collaborator built by NewServerWithDeps.
type Option func(*serverOptions)

type serverOptions struct {
	oauth    OAuthProvider
	notifier notifications.Notifier
	catalog  *catalog.Catalog
}

// WithOAuthProvider replaces the Discord OAuth client.
func WithOAuthProvider(p OAuthProvider) Option {
	return func(o *serverOptions) { o.oauth = p }
}

// WithNotifier replaces the webhook and Redis notifiers.
func WithNotifier(n notifications.Notifier) Option {
	return func(o *serverOptions) { o.notifier = n }
}

// WithCatalog replaces the application type templates.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *serverOptions) { o.catalog = c }
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.ConnectOptional(context.Background(), cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.catalog == nil {
		c, err := catalog.Load(cfg.ApplicationTypesFile)
		if err != nil {
			return nil, fmt.Errorf("load application types: %w", err)
		}
		o.catalog = c
	}

	events := notifications.NewRedisPublisher(redisClient)
	if o.notifier == nil {
		webhooks, err := notifications.NewWebhookNotifier(
			cfg.AcceptedWebhookURL,
			cfg.DeniedWebhookURL,
			&http.Client{Timeout: cfg.NotifyTimeout()},
		)
		if err != nil {
			return nil, fmt.Errorf("configure webhooks: %w", err)
		}
		o.notifier = notifications.Multi{webhooks, events}
	}
	if o.oauth == nil {
		o.oauth = discord.NewOAuthClient(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURI, nil)
	}

	admins := repository.NewRoleRepository(db, models.RoleAdmin)
	moderators := repository.NewRoleRepository(db, models.RoleModerator)
	blacklist := repository.NewBlacklistRepository(db)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	models.SetExposeErrorDetails(!cfg.IsProduction())

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("guildapply-api"),
		sessions:       session.NewManager(cfg.SessionSecret, cfg.SessionTTL(), redisClient),
		states:         session.NewStateStore(redisClient),
		oauth:          o.oauth,
		events:         events,
		featureFlags:   flags,
		access:         service.NewAccessService(admins, moderators),
		roles:          service.NewRoleService(admins, moderators, blacklist),
	}
	s.applications = service.NewApplicationService(service.ApplicationServiceConfig{
		Applications:  repository.NewApplicationRepository(db),
		Blacklist:     blacklist,
		Catalog:       o.catalog,
		Flags:         flags,
		Notifier:      o.notifier,
		NotifyTimeout: cfg.NotifyTimeout(),
	})

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request and user ids into the slog context.
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	auth := app.Group("/auth")
	auth.Get("/discord", s.DiscordLogin)
	auth.Get("/discord/callback", s.DiscordCallback)
	optionalSession := middleware.SessionOptional(s.sessions)
	auth.Get("/logout", optionalSession, s.Logout)
	auth.Post("/logout", optionalSession, s.Logout)

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/application-types", s.GetApplicationTypes)

	requireSession := middleware.SessionRequired(s.sessions)
	user := middleware.RequireTier(s.access, models.TierAuthenticated)
	moderator := middleware.RequireTier(s.access, models.TierModerator)
	admin := middleware.RequireTier(s.access, models.TierAdmin)

	api.Get("/session", requireSession, user, s.GetSession)
	api.Post("/apply", requireSession, user, s.SubmitApplication)
	api.Get("/my-applications", requireSession, user, s.GetMyApplications)

	api.Get("/applications", requireSession, moderator, s.GetPendingApplications)
	api.Get("/applications/:id", requireSession, moderator, s.GetApplication)
	api.Post("/applications/:id/status", requireSession, admin, s.ReviewApplication)
	api.Delete("/applications/:id", requireSession, admin, s.DeleteApplication)

	api.Get("/admins", requireSession, admin, s.GetAdmins)
	api.Post("/admins", requireSession, admin, s.AddAdmin)
	api.Delete("/admins/:discordId", requireSession, admin, s.RemoveAdmin)

	api.Get("/moderators", requireSession, admin, s.GetModerators)
	api.Post("/moderators", requireSession, admin, s.AddModerator)
	api.Delete("/moderators/:discordId", requireSession, admin, s.RemoveModerator)

	api.Get("/blacklist", requireSession, admin, s.GetBlacklist)
	api.Post("/blacklist", requireSession, admin, s.AddToBlacklist)
	api.Delete("/blacklist/:discordId", requireSession, admin, s.RemoveFromBlacklist)

	api.Get("/feature-flags", requireSession, admin, s.GetFeatureFlags)
	api.Get("/metrics/dashboard", requireSession, admin, monitor.New(monitor.Config{
		Title: "Guild Apply Metrics Dashboard",
	}))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName: "Guild Apply API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Message: fe.Message})
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	if err := s.events.Subscribe(s.shutdownCtx, func(e notifications.Event) {
		log.Printf("application event: %s %s by %s", e.Kind, e.ApplicationID, e.ReviewerID)
	}); err != nil {
		log.Printf("application event subscriber not started: %v", err)
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Let in-flight review notifications finish before closing Redis.
	done := make(chan struct{})
	go func() {
		s.applications.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("review notifications still running at shutdown")
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

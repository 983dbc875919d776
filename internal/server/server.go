// Package server contains the HTTP handlers for the PaceUp API.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"paceup/internal/bootstrap"
	"paceup/internal/config"
	"paceup/internal/featureflags"
	"paceup/internal/mailer"
	"paceup/internal/middleware"
	"paceup/internal/models"
	"paceup/internal/notifications"
	"paceup/internal/observability"
	"paceup/internal/repository"
	"paceup/internal/service"
	"paceup/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	tracingShutdown func(context.Context) error
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	paymentRepo      repository.PaymentRepository
	reportRepo       repository.ReportRepository
	notificationRepo repository.NotificationRepository
	resetRepo        repository.PasswordResetRepository
	subscriptionRepo repository.SubscriptionRepository
	documentRepo     repository.DocumentRepository

	notifier     *notifications.Notifier
	featureFlags *featureflags.Manager

	authService     *service.AuthService
	userService     *service.UserService
	postService     *service.PostService
	eventService    *service.EventService
	paymentService  *service.PaymentService
	adminService    *service.AdminService
	reportService   *service.ReportService
	passwordService *service.PasswordService
	documentService *service.DocumentService
}

// NewServer creates a new server instance, establishing the database and
// Redis connections and the optional mail/storage collaborators itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "paceup-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.TracingOTLPURL,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing setup failed: %w", err)
	}

	var mail mailer.Mailer
	if cfg.SMTPConfigured() {
		if mail, err = mailer.New(cfg); err != nil {
			return nil, fmt.Errorf("mailer setup failed: %w", err)
		}
	} else {
		log.Println("SMTP not configured; reset-code email disabled")
	}

	var store storage.Store
	if cfg.StorageConfigured() {
		if store, err = storage.New(cfg); err != nil {
			return nil, fmt.Errorf("object storage setup failed: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.EnsureBucket(ctx, store); err != nil {
			return nil, fmt.Errorf("object storage bucket check failed: %w", err)
		}
	} else {
		log.Println("object storage not configured; document analysis runs without uploads")
	}

	s, err := NewServerWithDeps(cfg, db, redisClient, mail, store)
	if err != nil {
		return nil, err
	}
	s.tracingShutdown = tracingShutdown
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
// mail and store may be nil; the affected features degrade gracefully.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mail mailer.Mailer, store storage.Store) (*Server, error) {
	prom := middleware.InitMetrics("paceup-api")

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,

		userRepo:         repository.NewUserRepository(db, redisClient),
		postRepo:         repository.NewPostRepository(db, redisClient),
		eventRepo:        repository.NewEventRepository(db, redisClient),
		registrationRepo: repository.NewRegistrationRepository(db),
		paymentRepo:      repository.NewPaymentRepository(db),
		reportRepo:       repository.NewReportRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		resetRepo:        repository.NewPasswordResetRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		documentRepo:     repository.NewDocumentRepository(db),

		featureFlags: featureflags.NewManager(cfg.FeatureFlags),
	}

	s.notifier = notifications.NewNotifier(s.notificationRepo, redisClient)

	s.authService = service.NewAuthService(s.userRepo, cfg)
	s.userService = service.NewUserService(s.userRepo, s.registrationRepo, s.postRepo)
	s.postService = service.NewPostService(s.postRepo, s.userRepo, s.notifier)
	s.eventService = service.NewEventService(s.eventRepo, s.registrationRepo)
	s.paymentService = service.NewPaymentService(s.paymentRepo, s.eventService, s.registrationRepo)
	s.adminService = service.NewAdminService(s.postRepo, s.eventRepo, s.registrationRepo, s.userRepo, s.notifier)
	s.reportService = service.NewReportService(s.reportRepo, s.postRepo)
	s.passwordService = service.NewPasswordService(s.userRepo, s.resetRepo, mail)
	s.documentService = service.NewDocumentService(s.documentRepo, store)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PaceUp Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/google/login", s.GoogleLogin)
	auth.Get("/google/callback", s.GoogleCallback)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Password reset (pre-auth, so rate limiting matters here)
	password := api.Group("/password")
	password.Post("/forgot", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "password_forgot"), s.ForgotPassword)
	password.Post("/verify-code", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "password_verify"), s.VerifyResetCode)
	password.Post("/reset", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "password_reset"), s.ResetPassword)

	// Email subscriptions (public)
	email := api.Group("/email")
	email.Post("/subscribe", s.Subscribe)
	email.Post("/unsubscribe", s.Unsubscribe)

	// Payment confirm is deliberately unauthenticated: the sandbox payment
	// page posts here without a session.
	api.Post("/payment/confirm", s.ConfirmPayment)

	// Public browse routes (optional auth enriches liked flags)
	api.Get("/blog/posts", s.ListBlogPosts)
	api.Get("/blog/posts/:id", s.GetBlogPost)
	api.Get("/content/posts", s.ListContentPosts)
	api.Get("/content/posts/:id", s.GetContentPost)
	api.Get("/events", s.ListEvents)
	api.Get("/events/:id", s.GetEvent)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/profile", s.GetProfile)
	users.Put("/profile", s.UpdateProfile)
	users.Get("/stats", s.GetUserStats)
	users.Get("/joined-events", s.GetJoinedEvents)

	blog := protected.Group("/blog/posts")
	blog.Post("/", s.CreateBlogPost)
	blog.Post("/:id/like", s.LikePost)
	blog.Delete("/:id/like", s.UnlikePost)
	blog.Put("/:id", s.UpdatePost)
	blog.Delete("/:id", s.DeletePost)

	content := protected.Group("/content/posts")
	content.Post("/", s.CreateContentPost)
	content.Post("/:id/like", s.LikePost)
	content.Delete("/:id/like", s.UnlikePost)
	content.Put("/:id", s.UpdatePost)
	content.Delete("/:id", s.DeletePost)

	events := protected.Group("/events")
	events.Post("/", s.CreateEvent)
	events.Post("/:id/register", s.RegisterForEvent)
	events.Get("/:id/registrations", s.ListEventRegistrations)
	events.Put("/:id", s.UpdateEvent)
	events.Delete("/:id", s.DeleteEvent)

	payment := protected.Group("/payment")
	payment.Post("/sessions", s.CreatePaymentSession)
	payment.Get("/sessions/:id/status", s.GetPaymentStatus)

	reports := protected.Group("/reports")
	reports.Post("/", s.CreateReport)
	reports.Get("/", s.AdminRequired(), s.ListReports)
	reports.Put("/:id", s.AdminRequired(), s.DecideReport)

	notifs := protected.Group("/notifications")
	notifs.Get("/", s.ListNotifications)
	notifs.Get("/unread-count", s.UnreadNotificationCount)
	notifs.Put("/read-all", s.MarkAllNotificationsRead)
	notifs.Put("/:id/read", s.MarkNotificationRead)

	documents := protected.Group("/documents")
	documents.Post("/analyze", s.AnalyzeDocument)
	documents.Get("/", s.ListDocuments)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/posts", s.AdminListPosts)
	admin.Put("/posts/:id/status", s.AdminSetPostStatus)
	admin.Get("/events", s.AdminListEvents)
	admin.Put("/events/:id/status", s.AdminSetEventStatus)
	admin.Get("/registrations/payments", s.AdminListRegistrationPayments)
	admin.Get("/registrations", s.AdminListRegistrations)
	admin.Put("/registrations/:id/status", s.AdminSetRegistrationStatus)
	admin.Get("/stats", s.AdminStats)
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/role", s.AdminSetUserRole)
	admin.Get("/feature-flags", s.GetFeatureFlags)
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
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API stays functional without Redis; caching and rate limiting
		// degrade, so readiness reports it without failing.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// AuthRequired returns middleware that validates the Bearer token and stores
// the user ID in locals and the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.authService.VerifyToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(string)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return respondAppError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// optionalUserID extracts the user ID from the Authorization header without
// enforcing it, for public routes that personalize when a token is present.
func (s *Server) optionalUserID(c *fiber.Ctx) string {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return ""
	}
	userID, err := s.authService.VerifyToken(tokenString)
	if err != nil {
		return ""
	}
	return userID
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetFeatureFlags handles GET /api/v1/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot(""))
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "PaceUp API",
		BodyLimit: models.MaxDocumentSize + 1<<20, // document uploads plus headroom
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

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

	if s.tracingShutdown != nil {
		if terr := s.tracingShutdown(ctx); terr != nil {
			log.Printf("error shutting down tracing: %v", terr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

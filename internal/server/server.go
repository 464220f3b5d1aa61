// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"coachhub/internal/cache"
	"coachhub/internal/config"
	"coachhub/internal/database"
	"coachhub/internal/middleware"
	"coachhub/internal/models"
	"coachhub/internal/notify"
	"coachhub/internal/repository"
	"coachhub/internal/service"
	"coachhub/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "coachhub-api"
	tokenAudience = "coachhub-client"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	app    *fiber.App

	userRepo       repository.UserRepository
	blogRepo       repository.BlogRepository
	subscriberRepo repository.SubscriberRepository

	feedback    *service.FeedbackService
	attachments *service.AttachmentService
}

// NewServer creates a server instance with all dependencies wired from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	allocator := repository.NewSequenceAllocator(db)
	directory := repository.NewUserDirectory(db)
	notifier := notify.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.DiscordPingUserID)
	store := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		userRepo:       repository.NewUserRepository(db),
		blogRepo:       repository.NewBlogRepository(db),
		subscriberRepo: repository.NewSubscriberRepository(db),
		feedback: service.NewFeedbackService(
			reportRepo, commentRepo, attachmentRepo, allocator, directory, notifier),
		attachments: service.NewAttachmentService(attachmentRepo, reportRepo, store),
	}, nil
}

// NewServerWithDeps builds a server from pre-constructed dependencies. Tests
// use this to inject mocks without a database.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	userRepo repository.UserRepository,
	blogRepo repository.BlogRepository,
	subscriberRepo repository.SubscriberRepository,
	feedback *service.FeedbackService,
	attachments *service.AttachmentService,
) *Server {
	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		userRepo:       userRepo,
		blogRepo:       blogRepo,
		subscriberRepo: subscriberRepo,
		feedback:       feedback,
		attachments:    attachments,
	}
}

// SetupMiddleware configures the middleware chain for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	prom := middleware.InitMetrics("coachhub")
	prom.RegisterAt(app, "/metrics")
	app.Use(middleware.MetricsMiddleware(prom))

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

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

	// Global rate limit (per IP), on top of the per-route Redis limits.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Uploaded attachments are served as public assets.
	if s.config.UploadDir != "" {
		app.Static("/media", s.config.UploadDir)
	}

	app.Get("/health/live", s.Liveness)
	app.Get("/health/ready", s.HealthCheck)

	api := app.Group("/api")

	api.Get("/", s.HealthCheck)

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public content
	blog := api.Group("/blog")
	blog.Get("/", s.ListBlogPosts)
	blog.Get("/:slug", s.GetBlogPost)

	api.Post("/newsletter/subscribe",
		middleware.RateLimit(s.redis, 5, 10*time.Minute, "newsletter"), s.SubscribeNewsletter)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	feedback := protected.Group("/feedback")
	feedback.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "submit_report"), s.SubmitReport)
	feedback.Get("/", s.ListReports)
	feedback.Get("/stats", s.StaffRequired(), s.GetReportStats)
	// Specific /:id/:resource routes BEFORE generic /:id route
	feedback.Post("/:id/vote", s.ToggleVote)
	feedback.Get("/:id/comments", s.ListComments)
	feedback.Post("/:id/comments", middleware.RateLimit(s.redis, 20, time.Minute, "report_comment"), s.AddComment)
	feedback.Get("/:id/attachments", s.ListAttachments)
	feedback.Post("/:id/attachments",
		middleware.RateLimit(s.redis, 5, time.Minute, "upload_attachments"), s.UploadAttachments)
	feedback.Patch("/:id/status", s.StaffRequired(), s.UpdateReportStatus)
	feedback.Patch("/:id/priority", s.StaffRequired(), s.UpdateReportPriority)
	feedback.Get("/:id", s.GetReport)

	// Staff-only blog management
	blogAdmin := protected.Group("/blog", s.StaffRequired())
	blogAdmin.Post("/", s.CreateBlogPost)
	blogAdmin.Put("/:id", s.UpdateBlogPost)
	blogAdmin.Delete("/:id", s.DeleteBlogPost)
}

// Liveness reports that the process is up without touching dependencies.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HealthCheck reports readiness, pinging the database and Redis.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if sqlDB, err := s.db.DB(); err != nil {
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "CoachHub API",
		"status":  overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It validates the JWT,
// rejects blacklisted token IDs and stores the caller's identity in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		role, _ := claims["role"].(string)
		if role == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid role claim"))
		}

		// Logged-out tokens stay blacklisted in Redis until they expire.
		if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
			exists, err := s.redis.Exists(c.Context(), blacklistKey(jti)).Result()
			if err == nil && exists > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("userID", uint(userID))
		c.Locals("userRole", role)

		return c.Next()
	}
}

// StaffRequired restricts a route to staff and admin callers. It must run
// after AuthRequired.
func (s *Server) StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		if !models.IsStaffRole(role) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Staff access required"))
		}
		return c.Next()
	}
}

func blacklistKey(jti string) string {
	return "jwt:blacklist:" + jti
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "CoachHub API",
		BodyLimit: 6 * service.MaxAttachmentSize,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests and closes external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down http server", "error", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Error("error closing sql DB", "error", cerr)
			}
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}
	middleware.Logger.Info("server shutdown complete")
	return nil
}

// respondServiceError maps service and repository errors onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: "NOT_FOUND", Message: "Resource not found"})
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

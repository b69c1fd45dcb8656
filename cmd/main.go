package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"escalas/internal/analytics"
	"escalas/internal/caching"
	"escalas/internal/handlers"
	"escalas/internal/jobs/background"
	"escalas/internal/middleware"
	"escalas/internal/repositories"
	"escalas/internal/services"
	"escalas/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	tokenTTL := envInt("TOKEN_TTL_SECONDS", 3600)
	refreshTTL := envInt("REFRESH_TTL_SECONDS", 30*24*3600)

	// Public base URL used in shared schedule links
	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envInt("REDIS_DB", 0)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Payment provider configuration
	paymentAPIKey := os.Getenv("PAYMENT_API_KEY")
	paymentAPISecret := os.Getenv("PAYMENT_API_SECRET")
	paymentWebhookSecret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	paymentBaseURL := os.Getenv("PAYMENT_BASE_URL")

	// Object storage service
	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	userRoleRepo := repositories.NewUserRoleRepo(pool)
	churchRepo := repositories.NewChurchRepo(pool)
	ministryRepo := repositories.NewMinistryRepo(pool)
	memberRepo := repositories.NewMemberRepo(pool)
	availabilityRepo := repositories.NewAvailabilityRepo(pool)
	scheduleRepo := repositories.NewScheduleRepo(pool)
	assignmentRepo := repositories.NewAssignmentRepo(pool)
	responseRepo := repositories.NewResponseRepo(pool)
	templateRepo := repositories.NewTemplateRepo(pool)
	invitationRepo := repositories.NewInvitationRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(userRepo, userRoleRepo, cacheSvc, jwtSecret, tokenTTL, refreshTTL)
	rolesSvc := services.NewRolesService(userRoleRepo)
	accessSvc := services.NewAccessService(churchRepo)
	churchSvc := services.NewChurchService(churchRepo, userRoleRepo, storageSvc, cacheSvc)
	ministrySvc := services.NewMinistryService(ministryRepo)
	memberSvc := services.NewMemberService(memberRepo, ministryRepo, churchRepo)
	availabilitySvc := services.NewAvailabilityService(availabilityRepo, memberRepo)
	conflictSvc := services.NewConflictService(availabilityRepo, scheduleRepo, assignmentRepo)
	scheduleSvc := services.NewScheduleService(scheduleRepo, assignmentRepo, responseRepo, memberRepo, ministryRepo, conflictSvc, publicBaseURL)
	responseSvc := services.NewResponseService(assignmentRepo, responseRepo, scheduleRepo, memberRepo)
	templateSvc := services.NewTemplateService(templateRepo)
	invitationSvc := services.NewInvitationService(invitationRepo, userRoleRepo)
	notificationSvc := services.NewNotificationService(notificationRepo)
	auditLogsSvc := services.NewAuditLogsService(auditLogsRepo)
	paymentSvc := services.NewPaymentService(paymentAPIKey, paymentAPISecret, paymentWebhookSecret, paymentBaseURL)
	billingSvc := services.NewBillingService(churchRepo, paymentSvc, cacheSvc)
	statsSvc := analytics.NewStatsService(ministryRepo, memberRepo, scheduleRepo, responseRepo, cacheSvc)

	// Middleware
	rolesMiddleware := middleware.NewRolesMiddleware(rolesSvc)
	subscriptionMiddleware := middleware.NewSubscriptionMiddleware(accessSvc)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogsSvc)

	// Background jobs
	jobScheduler := background.NewJobScheduler(statsSvc, notificationSvc, churchRepo, scheduleRepo, responseRepo)
	if err := jobScheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer jobScheduler.Stop()

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, rolesSvc)
	churchHandlers := handlers.NewChurchHandlers(churchSvc, accessSvc, rolesMiddleware, auditMiddleware)
	ministryHandlers := handlers.NewMinistryHandlers(ministrySvc, rolesMiddleware)
	memberHandlers := handlers.NewMemberHandlers(memberSvc, availabilitySvc, rolesMiddleware)
	scheduleHandlers := handlers.NewScheduleHandlers(scheduleSvc, rolesMiddleware, auditMiddleware)
	templateHandlers := handlers.NewTemplateHandlers(templateSvc, rolesMiddleware)
	invitationHandlers := handlers.NewInvitationHandlers(invitationSvc, rolesMiddleware)
	publicHandlers := handlers.NewPublicHandlers(scheduleSvc, responseSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(statsSvc, notificationSvc)
	billingHandlers := handlers.NewBillingHandlers(billingSvc, rolesMiddleware)
	auditLogsHandlers := handlers.NewAuditLogsHandlers(auditLogsSvc, rolesMiddleware)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, jobScheduler)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// Public pages reached through shared links (no auth required)
	e.GET("/public/schedules/:id", publicHandlers.GetPublicSchedule)
	e.GET("/public/responses/:token", publicHandlers.GetResponseContext)
	e.POST("/public/responses/:token", publicHandlers.SubmitResponse)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Payment provider callbacks are authenticated by signature, not JWT
	v1.POST("/billing/webhook", billingHandlers.HandleWebhook)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))
	protected.Use(auditMiddleware.AuditRequest("low"))

	protected.GET("/me", authHandlers.Me)
	protected.POST("/churches", churchHandlers.CreateChurch)
	protected.POST("/invitations/accept", invitationHandlers.AcceptInvitation)

	// Church-scoped routes: the user must belong to a church, and writes
	// are gated on an active trial or subscription.
	church := protected.Group("")
	church.Use(middleware.RequireChurch())
	church.Use(subscriptionMiddleware.RequireActiveAccess())

	church.GET("/churches/me", churchHandlers.GetChurch)
	church.GET("/churches/me/access", churchHandlers.GetAccessStatus)
	church.PUT("/churches/me", churchHandlers.UpdateChurch)
	church.POST("/churches/me/logo", churchHandlers.UploadLogo)
	church.DELETE("/churches/me", churchHandlers.DeleteChurch)

	church.GET("/ministries", ministryHandlers.ListMinistries)
	church.POST("/ministries", ministryHandlers.CreateMinistry)
	church.GET("/ministries/:id", ministryHandlers.GetMinistry)
	church.PUT("/ministries/:id", ministryHandlers.UpdateMinistry)
	church.DELETE("/ministries/:id", ministryHandlers.DeleteMinistry)

	church.GET("/members", memberHandlers.ListMembers)
	church.POST("/members", memberHandlers.CreateMember)
	church.GET("/members/:id", memberHandlers.GetMember)
	church.PUT("/members/:id", memberHandlers.UpdateMember)
	church.DELETE("/members/:id", memberHandlers.DeleteMember)
	church.PUT("/members/:id/availability", memberHandlers.SetAvailability)
	church.GET("/members/:id/availability", memberHandlers.ListUnavailability)

	church.GET("/schedules", scheduleHandlers.ListSchedules)
	church.POST("/schedules", scheduleHandlers.CreateSchedule)
	church.GET("/schedules/:id", scheduleHandlers.GetSchedule)
	church.PUT("/schedules/:id", scheduleHandlers.UpdateSchedule)
	church.DELETE("/schedules/:id", scheduleHandlers.DeleteSchedule)
	church.POST("/schedules/conflicts", scheduleHandlers.CheckConflicts)
	church.GET("/schedules/:id/share", scheduleHandlers.GetShareLink)

	church.GET("/templates", templateHandlers.ListTemplates)
	church.POST("/templates", templateHandlers.CreateTemplate)
	church.GET("/templates/:id", templateHandlers.GetTemplate)
	church.PUT("/templates/:id", templateHandlers.UpdateTemplate)
	church.DELETE("/templates/:id", templateHandlers.DeleteTemplate)

	church.GET("/invitations", invitationHandlers.ListInvitations)
	church.POST("/invitations", invitationHandlers.Invite)
	church.DELETE("/invitations/:id", invitationHandlers.RevokeInvitation)

	church.GET("/dashboard/stats", dashboardHandlers.GetStats)
	church.GET("/notifications", dashboardHandlers.ListNotifications)
	church.PUT("/notifications/:id/read", dashboardHandlers.MarkNotificationRead)
	church.GET("/notifications/unread", dashboardHandlers.CountUnreadNotifications)

	church.GET("/billing/plans", billingHandlers.GetPlans)
	church.POST("/billing/checkout", billingHandlers.StartCheckout)
	church.POST("/billing/cancel", billingHandlers.CancelSubscription)

	church.GET("/audit-logs", auditLogsHandlers.ListAuditLogs)
	church.GET("/audit-logs/:table/:record_id", auditLogsHandlers.GetEntityHistory)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Escalas server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

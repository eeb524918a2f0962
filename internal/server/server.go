package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/client/payments/stripe"
	"github.com/craftside/portal-api/internal/config"
	"github.com/craftside/portal-api/internal/db"
	"github.com/craftside/portal-api/internal/handlers"
	"github.com/craftside/portal-api/internal/logger"
	"github.com/craftside/portal-api/internal/middleware"
	"github.com/craftside/portal-api/internal/services"
)

// Server wires the database pool, gateway client, services and HTTP routes.
type Server struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	router *gin.Engine
	logger *zap.Logger

	invoiceHandler *handlers.InvoiceHandler
	paymentHandler *handlers.PaymentHandler
	webhookHandler *handlers.WebhookHandler
	healthHandler  *handlers.HealthHandler
}

// New builds a fully wired server from configuration.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	log := logger.Log

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	queries := db.New(pool)
	txManager := db.NewPoolTxManager(pool)

	gateway, err := stripe.NewService(cfg.StripeAPIKey, cfg.StripeWebhookSecret, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var email services.EmailSender = services.NoopEmailSender{}
	if cfg.ResendAPIKey != "" {
		email = services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail, cfg.FromName, log)
	}

	invoiceService := services.NewInvoiceService(queries, txManager, log, email)
	estimationService := services.NewEstimationService(queries, log)
	paymentService := services.NewPaymentService(queries, txManager, gateway, log, email, cfg.PortalBaseURL, cfg.Currency)

	common := handlers.NewCommonServices(handlers.CommonServicesConfig{
		DB:     queries,
		Logger: log,
	})

	s := &Server{
		cfg:    cfg,
		pool:   pool,
		logger: log,

		invoiceHandler: handlers.NewInvoiceHandler(common, invoiceService, estimationService, log),
		paymentHandler: handlers.NewPaymentHandler(common, paymentService, log),
		webhookHandler: handlers.NewWebhookHandler(common, gateway, paymentService, log),
		healthHandler:  handlers.NewHealthHandler(),
	}
	s.router = s.buildRouter()

	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	if s.cfg.Stage == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(configureCORS())

	rateLimiter := middleware.NewRateLimiter(s.cfg.RateLimitPerSecond, s.cfg.RateLimitBurst)
	router.Use(rateLimiter.Middleware())

	router.GET("/health", s.healthHandler.Health)

	// Webhooks authenticate by signature, not bearer token.
	router.POST("/webhooks/stripe", s.webhookHandler.HandleStripeWebhook)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(s.cfg.JWTSecret))
	{
		estimations := v1.Group("/estimations")
		{
			estimations.POST("/:estimation_id/approve", s.invoiceHandler.ApproveEstimation)
			estimations.POST("/:estimation_id/invoice", s.invoiceHandler.CreateInvoiceFromEstimation)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("/stats", s.invoiceHandler.GetInvoiceStats)
			invoices.POST("/mark-overdue", middleware.RequireRole("admin"), s.invoiceHandler.MarkOverdueInvoices)
			invoices.GET("/:invoice_id", s.invoiceHandler.GetInvoice)
			invoices.PATCH("/:invoice_id/status", s.invoiceHandler.UpdateInvoiceStatus)
			invoices.POST("/:invoice_id/pay", s.paymentHandler.PayInvoice)
			invoices.GET("/:invoice_id/payment-status", s.paymentHandler.GetPaymentStatus)
		}

		v1.GET("/projects/:project_id/invoices", s.invoiceHandler.ListProjectInvoices)

		payments := v1.Group("/payments")
		payments.Use(middleware.RequireRole("admin"))
		{
			payments.POST("/:payment_id/refund", s.paymentHandler.RefundPayment)
		}
	}

	return router
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.pool.Close()
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		corsConfig.AllowOrigins = strings.Split(originsEnv, ",")
	}

	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization", "X-Correlation-ID", "Stripe-Signature")

	return cors.New(corsConfig)
}

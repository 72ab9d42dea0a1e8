// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration

	// Location is the kitchen time zone used to read metrics dates
	Location *time.Location
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		RequestTimeout: 15 * time.Second,
		Location:       time.Local,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	auth       *Authenticator
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	services Services,
	auth *Authenticator,
	health HealthCheck,
	logger Logger,
) (*Server, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		handlers: NewHandlers(services, health, config.Location, logger),
		auth:     auth,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server, nil
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
	if s.config.RequestTimeout > 0 {
		s.router.Use(timeoutMiddleware(s.config.RequestTimeout))
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// timeoutMiddleware bounds the context every service call receives
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api/v1")

	// Customer endpoints, authorized by the order link token
	public := api.Group("/public/orders/:token")
	{
		public.GET("", h.PublicOrder)
		public.GET("/dishes", h.PublicOrderDishes)
		public.PATCH("/status", h.PublicUpdateStatus)
	}

	staff := api.Group("", s.auth.Middleware())
	waiter := RequireRole(entity.RoleWaiter)
	chef := RequireRole(entity.RoleChef)
	manager := RequireRole()

	staff.GET("/tables/available", h.AvailableTables)

	orders := staff.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("", waiter, h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/:id/status", waiter, h.UpdateOrderStatus)
		orders.POST("/:id/cancel", waiter, h.CancelOrder)
		orders.POST("/:id/charges", waiter, h.AddCustomCharge)
		orders.DELETE("/:id/charges/:chargeId", waiter, h.RemoveCustomCharge)
		orders.POST("/:id/account", waiter, h.RecomputeAccount)
		orders.POST("/:id/payment", waiter, h.ProcessPayment)
		orders.GET("/:id/public-token", waiter, h.PublicToken)
		orders.GET("/:id/dishes", h.OrderDishes)
		orders.POST("/:id/dishes", waiter, h.AddDishes)
	}

	dishes := staff.Group("/dishes")
	{
		dishes.GET("", h.ListDishes)
		dishes.GET("/today", h.KitchenBoard)
		dishes.GET("/mine", chef, h.MyDishes)
		dishes.POST("", waiter, h.CreateDish)
		dishes.GET("/:id", h.GetDish)
		dishes.GET("/:id/logs", h.DishLogs)
		dishes.PATCH("/:id/status", RequireRole(entity.RoleChef, entity.RoleWaiter), h.UpdateDishStatus)
		dishes.PATCH("/:id/chef", chef, h.AssignChef)
		dishes.DELETE("/:id", waiter, h.RemoveDish)
	}

	metrics := staff.Group("/metrics", manager)
	{
		metrics.GET("", h.Metrics)
		metrics.GET("/export", h.ExportMetrics)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

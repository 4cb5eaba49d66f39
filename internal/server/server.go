package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymflow/internal/auth"
	"gymflow/internal/billing"
	"gymflow/internal/booking"
	"gymflow/internal/club"
	"gymflow/internal/config"
	"gymflow/internal/gymclass"
	"gymflow/internal/ledger"
	"gymflow/internal/logger"
	"gymflow/internal/membership"
	"gymflow/internal/user"

	"github.com/gin-gonic/gin"
)

// Handlers are the per-package HTTP handlers the router mounts.
type Handlers struct {
	User       *user.Handler
	Club       *club.Handler
	Class      *gymclass.Handler
	Booking    *booking.Handler
	Membership *membership.Handler
	Ledger     *ledger.Handler
	Billing    *billing.Handler
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, db Pinger, tokens *auth.Issuer, h Handlers) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	useJSONFieldNames()

	limiter := NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 3*time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
	)

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	limited := router.Group("/")
	limited.Use(limiter.Middleware())

	public := limited.Group("/auth")
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.Middleware(tokens)

	protected := limited.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)
		protected.GET("/clubs", h.Club.ListClubs)
		protected.GET("/clubs/:clubID/locations", h.Club.ListLocations)
		protected.GET("/clubs/:clubID/classes", h.Class.ListClubClasses)
		protected.GET("/clubs/:clubID/plans", h.Membership.ListPlans)
		protected.GET("/classes/:classID", h.Booking.GetClassDetail)
	}

	member := limited.Group("/")
	member.Use(authMiddleware, auth.RequireRole(auth.RoleMember))
	{
		member.POST("/classes/:classID/book", h.Booking.BookClass)
		member.POST("/bookings/:bookingID/cancel", h.Booking.CancelBooking)
		member.GET("/bookings", h.Booking.ListMyBookings)
		member.POST("/membership/join", h.Membership.Join)
		member.GET("/membership", h.Membership.GetMembership)
	}

	staff := limited.Group("/staff")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleStaff))
	{
		staff.POST("/clubs", h.Club.CreateClub)
		staff.POST("/clubs/:clubID/locations", h.Club.CreateLocation)
		staff.POST("/classes", h.Class.CreateClass)
		staff.POST("/plans", h.Membership.CreatePlan)
		staff.POST("/users", h.User.CreateStaff)
		staff.GET("/members", h.User.ListMembers)
		staff.GET("/accounts/owing", h.Ledger.ListOwing)
		staff.GET("/classes/:classID/bookings", h.Booking.ListBookingsByClass)
		staff.GET("/clubs/:clubID/bookings", h.Booking.ListBookingsByClub)
		staff.GET("/analytics/bookings", h.Booking.GetBookingAnalytics)
		staff.POST("/billing/run", h.Billing.RunNow)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown; a clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info("Server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Close()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package routes

import (
	"net/http"
	"time"

	"busbook/handlers"
	"busbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterAgentRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", handlers.RegisterHandler(hb.UserSvc))
		api.POST("/login", handlers.LoginHandler(hb.UserSvc))

		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", handlers.MeHandler(hb.UserSvc))
	}
}

// RegisterCatalogRoutes registers the public discovery endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/cities", handlers.SearchCitiesHandler(hb.CatalogSvc))
		api.GET("/cities/popular", handlers.PopularCitiesHandler(hb.CatalogSvc))
		api.GET("/buses", handlers.SearchBusesHandler(hb.CatalogSvc))
		api.GET("/schedules/:scheduleID/seats", handlers.SeatMapHandler(hb.CatalogSvc))
		api.GET("/schedules/:scheduleID/points", handlers.SchedulePointsHandler(hb.CatalogSvc))
	}
}

// RegisterBookingRoutes registers the booking endpoints (authenticated).
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.CreateBookingHandler(hb.BookingSvc))
		api.GET("", handlers.ListBookingsHandler(hb.BookingSvc))
		api.GET("/:bookingID", handlers.GetBookingHandler(hb.BookingSvc))
		api.DELETE("/:bookingID", handlers.CancelBookingHandler(hb.BookingSvc))
	}
}

// RegisterWalletRoutes registers the wallet endpoints (authenticated).
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", handlers.GetWalletHandler(hb.WalletSvc))
		api.POST("/add", handlers.AddMoneyHandler(hb.WalletSvc))
		api.GET("/transactions", handlers.ListTransactionsHandler(hb.WalletSvc))
	}
}

// RegisterAgentRoutes registers the conversational assistant endpoints
// (authenticated).
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agent")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/chat", handlers.ChatHandler(hb.AgentSvc))
		api.POST("/chat/voice", handlers.VoiceChatHandler(hb.AgentSvc))
		api.GET("/sessions", handlers.ListChatSessionsHandler(hb.AgentSvc))
		api.GET("/sessions/:sessionID/messages", handlers.ChatHistoryHandler(hb.AgentSvc))
		api.POST("/sessions/:sessionID/end", handlers.EndChatSessionHandler(hb.AgentSvc))
	}
}

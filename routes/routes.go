package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joeys1992/Date/handlers"
	"github.com/joeys1992/Date/middleware"
	"github.com/joeys1992/Date/store"
	"github.com/joeys1992/Date/websocket"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Social       *handlers.SocialHandler
	Discover     *handlers.DiscoverHandler
	Conversation *handlers.ConversationHandler
	Push         *handlers.PushHandler
}

func SetupRouter(h Handlers, users store.UserStore, wsManager *websocket.Manager) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Auth endpoints get a tighter rate limit than the rest of the API
	authLimiter := middleware.NewIPRateLimiter(10, time.Minute)

	router.POST("/api/register", middleware.RateLimit(authLimiter), h.Auth.Register)
	router.POST("/api/login", middleware.RateLimit(authLimiter), h.Auth.Login)
	router.GET("/api/verify-email", h.Auth.VerifyEmail)
	router.POST("/api/verify-email", h.Auth.VerifyEmail)
	router.POST("/api/resend-verification", middleware.RateLimit(authLimiter), h.Auth.ResendVerification)
	router.GET("/api/profile/questions", h.Profile.Questions)
	router.GET("/api/vapid-public-key", h.Push.VapidPublicKey)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(users))

	// Profile
	protected.GET("/profile/me", h.Profile.Me)
	protected.PUT("/profile", h.Profile.UpdateProfile)
	protected.POST("/profile/upload-photo", h.Profile.UploadPhoto)
	protected.POST("/profile/location", h.Profile.SetLocation)
	protected.PUT("/profile/search-preferences", h.Profile.SetSearchPreferences)

	// Discovery and social graph
	protected.GET("/discover", h.Discover.Discover)
	protected.POST("/profile/:id/view", h.Social.ViewProfile)
	protected.POST("/profile/:id/like", h.Social.Like)
	protected.POST("/profile/:id/block", h.Social.Block)
	protected.GET("/matches", h.Social.Matches)

	// Conversations
	protected.GET("/conversations", h.Conversation.ListConversations)
	protected.POST("/conversations/:matchId/messages", h.Conversation.SendMessage)
	protected.GET("/conversations/:matchId/messages", h.Conversation.GetMessages)
	protected.GET("/conversations/:matchId/questions", h.Conversation.Questions)
	protected.GET("/conversations/:matchId/status", h.Conversation.Status)
	protected.PUT("/conversations/:matchId/messages/:messageId/read", h.Conversation.MarkRead)

	// Push subscriptions
	protected.POST("/subscribe", h.Push.Subscribe)

	// WebSocket upgrade authenticates via ?token=, not the middleware
	router.GET("/ws/:userId", websocket.Handler(wsManager))

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}

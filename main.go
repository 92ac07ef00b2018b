package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/joeys1992/Date/database"
	"github.com/joeys1992/Date/email"
	"github.com/joeys1992/Date/handlers"
	"github.com/joeys1992/Date/notify"
	"github.com/joeys1992/Date/routes"
	"github.com/joeys1992/Date/services"
	"github.com/joeys1992/Date/store"
	"github.com/joeys1992/Date/websocket"
)

func main() {
	log.Println("🚀 Starting Date Backend Server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Println("⚠️  JWT_SECRET not set, using insecure development default")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("🔌 Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}
	defer func() {
		if err := database.DisconnectMongo(); err != nil {
			log.Printf("❌ MongoDB disconnect error: %v", err)
		}
	}()

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	// ===== WIRING =====
	users := store.NewMongoUserStore(database.Users)
	matches := store.NewMongoMatchStore(database.Matches)
	conversations := store.NewMongoConversationStore(database.Conversations)
	messages := store.NewMongoMessageStore(database.Messages)

	wsManager := websocket.NewManager()
	notifier := notify.NewService(wsManager, database.PushSubs)
	mailer := email.NewLogMailer()

	directory := services.NewDirectory(users, mailer)
	discovery := services.NewDiscovery(users)
	likeMatch := services.NewLikeMatch(directory, users, matches, notifier)
	gate := services.NewConversationGate(users, matches, conversations, messages, notifier)

	router := routes.SetupRouter(routes.Handlers{
		Auth:         handlers.NewAuthHandler(directory),
		Profile:      handlers.NewProfileHandler(directory),
		Social:       handlers.NewSocialHandler(directory, likeMatch),
		Discover:     handlers.NewDiscoverHandler(discovery),
		Conversation: handlers.NewConversationHandler(gate),
		Push:         handlers.NewPushHandler(notifier),
	}, users, wsManager)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "Date Backend Running 🚀"})
	})

	// ===== SERVER CONFIG =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	log.Println("✅ Server is ready and accepting connections")

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("👋 Server stopped gracefully")
}

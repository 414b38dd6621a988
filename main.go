package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/codeandtesttea/songsbackend/controllers"
	"github.com/codeandtesttea/songsbackend/database"
	"github.com/codeandtesttea/songsbackend/helpers"
	"github.com/codeandtesttea/songsbackend/routes"
)

func main() {
	log.Println("🔍 [main] Starting application...")

	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️ [main] No .env file found, relying on environment")
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	mongoURI := os.Getenv("MONGODB_URL")
	if mongoURI == "" {
		log.Fatal("❌ [main] MONGODB_URL not found in environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "songsdb"
	}

	// Keeps retrying every 5 seconds until Mongo answers or we get a signal.
	connectCtx, stopConnect := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	client, err := database.Connect(connectCtx, mongoURI)
	stopConnect()
	if err != nil {
		log.Fatalf("❌ [main] Could not connect to MongoDB: %v", err)
	}

	storage, err := helpers.NewCloudinaryStorageFromEnv()
	if err != nil {
		log.Fatalf("❌ [main] Could not initialize Cloudinary: %v", err)
	}

	store := database.NewMongoSongStore(client, dbName)
	songController := controllers.NewSongController(store, storage)
	healthController := controllers.NewHealthController(store)
	statsController := controllers.NewStatsController(database.NewMongoStatsStore(client, dbName))
	userController := controllers.NewUserController(database.NewMongoUserStore(client, dbName))

	router := gin.New()
	router.Use(gin.Logger())

	// Last line of defense: any panic still produces a structured 500.
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("❌ [main] Panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SongRoute(router, songController)
	routes.StatsRoute(router, statsController)
	routes.AuthRoute(router, userController)
	routes.HealthRoute(router, healthController)
	log.Println("✅ [main] Routes registered")

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Println("🚀 [main] Server running on port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ [main] Server error: %v", err)
		}
	}()

	// Graceful shutdown: stop accepting, drain in-flight requests, then
	// close the store connection.
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	log.Println("🔍 [main] Shutting down...")

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		log.Printf("❌ [main] Server shutdown error: %v", err)
	}

	database.Disconnect(client)
	log.Println("✅ [main] Shutdown complete")
}

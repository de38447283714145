package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ethanx94/chatty/internal/cache"
	"github.com/ethanx94/chatty/internal/handlers"
	"github.com/ethanx94/chatty/internal/handlers/ws"
	"github.com/ethanx94/chatty/internal/middleware"
	"github.com/ethanx94/chatty/internal/notify"
	"github.com/ethanx94/chatty/internal/repository"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/ethanx94/chatty/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Chatty Backend",
		// Support icon uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}
	memberCache := cache.NewMemberCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	lastReadRepo := repository.NewLastReadRepository(db)

	// Initialize S3/MinIO storage (best-effort; icon endpoints report failure if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	// Initialize push notifications (best-effort; fan-out skips pushes if missing)
	var notifier notify.Sender
	if cfg, err := notify.LoadFCMConfigFromEnv(); err != nil {
		log.Printf("WARNING: push notifications not configured: %v", err)
	} else {
		notifier = notify.NewFCMSender(cfg)
		log.Println("FCM sender initialized successfully")
	}

	hub := ws.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, groupRepo, messageRepo)
	var assets service.AssetStorage
	if s3Store != nil {
		assets = s3Store
	}
	groupService := service.NewGroupService(groupRepo, userRepo, messageRepo, lastReadRepo, assets, memberCache)
	messageService := service.NewMessageService(messageRepo, groupRepo, userRepo, notifier, memberCache, hub)
	subscriptionService := service.NewSubscriptionService(userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, userRepo, groupRepo)
	groupHandler := handlers.NewGroupHandler(groupService, hub)
	messageHandler := handlers.NewMessageHandler(messageService, userService)
	wsHandler := handlers.NewWebsocketHandler(hub, subscriptionService)

	// Public routes
	api := app.Group("/api")
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(userRepo))

	protected.Get("/users/:id", userHandler.GetUser)
	protected.Get("/users/:id/friends", userHandler.GetFriends)
	protected.Get("/users/:id/groups", userHandler.GetGroups)
	protected.Get("/users/:id/messages", userHandler.GetMessages)
	protected.Put("/users/:id/device", userHandler.RegisterDevice)
	protected.Post("/friends", userHandler.Befriend)

	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Put("/groups/:id", groupHandler.UpdateGroup)
	protected.Delete("/groups/:id", groupHandler.DeleteGroup)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Get("/groups/:id/members", groupHandler.GetMembers)
	protected.Get("/groups/:id/last-read", groupHandler.GetLastRead)

	protected.Get("/groups/:id/messages", messageHandler.GetGroupMessages)
	protected.Post("/groups/:id/messages", messageHandler.CreateMessage)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use("/ws", middleware.AuthRequired(userRepo), wsHandler.Upgrade)
	app.Get("/ws", wsHandler.Serve())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Chatty is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

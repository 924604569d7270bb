package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/parley-chat/parley/internal/api/handlers"
	"github.com/parley-chat/parley/internal/api/middleware"
	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/crypto"
	"github.com/parley-chat/parley/internal/database"
	"github.com/parley-chat/parley/internal/gateway"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
)

func main() {
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetDebug()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Infof("Opening database: %s", cfg.DatabasePath)
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	queries := store.New(db)

	jwtManager, err := crypto.NewJWTManager(cfg.MasterSecret)
	if err != nil {
		logger.Errorf("Failed to create JWT manager: %v", err)
		os.Exit(1)
	}

	logger.Infof("Initializing Socket.IO gateway...")
	gw := gateway.New(queries, jwtManager)
	defer gw.Close()

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(queries, jwtManager)
	userHandler := handlers.NewUserHandler(queries)
	conversationHandler := handlers.NewConversationHandler(queries, gw)
	messageHandler := handlers.NewMessageHandler(queries)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/users", userHandler.Search)
		protected.PUT("/users/profile", userHandler.UpdateProfile)
		protected.GET("/users/contacts", userHandler.Contacts)
		protected.POST("/users/contacts", userHandler.AddContact)
		protected.DELETE("/users/contacts/:id", userHandler.RemoveContact)
		protected.GET("/users/:id", userHandler.GetByID)

		protected.GET("/conversations", conversationHandler.List)
		protected.POST("/conversations", conversationHandler.Create)
		protected.GET("/conversations/:id", conversationHandler.Get)
		protected.POST("/conversations/:id/participants", conversationHandler.AddParticipant)
		protected.DELETE("/conversations/:id/participants/:userId", conversationHandler.RemoveParticipant)
		protected.GET("/conversations/:id/messages", messageHandler.List)
		protected.PUT("/messages/:id", messageHandler.Update)
		protected.DELETE("/messages/:id", messageHandler.Delete)
	}

	// Socket.IO handshake is unauthenticated at the HTTP layer; the gateway
	// verifies the token carried in the handshake auth payload.
	router.Any("/socket.io", gw.HandleSocketIO())
	router.Any("/socket.io/*any", gw.HandleSocketIO())

	logger.Infof("Parley server starting on http://localhost%s", cfg.Addr())

	if err := router.Run(cfg.Addr()); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

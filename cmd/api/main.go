package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/pdf"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/storage"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Barangay Services API
// @version         1.0
// @description     Resident services backend: profiles, certificate requests, asset rentals, blotter reports and social assistance.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Local file storage for avatars, attachments and generated certificates
	store, err := storage.NewLocalStorage(envOr("STORAGE_ROOT", "storage"))
	if err != nil {
		log.Fatalf("Storage initialization failed: %v", err)
	}

	// Certificate generator letterhead
	generator := pdf.NewGenerator(
		envOr("BARANGAY_NAME", "Barangay San Isidro"),
		envOr("MUNICIPALITY", "Municipality of Cainta, Province of Rizal"),
	)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	assetRequestRepo := repository.NewAssetRequestRepository(db)
	documentRepo := repository.NewDocumentRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	blotterRepo := repository.NewBlotterRepository(db)
	beneficiaryRepo := repository.NewBeneficiaryRepository(db)
	disbursementRepo := repository.NewDisbursementRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, userRepo, wsHub)
	userService := service.NewUserService(userRepo)
	residentService := service.NewResidentService(residentRepo, txManager, store, notificationService)
	assetService := service.NewAssetService(assetRepo)
	assetRequestService := service.NewAssetRequestService(assetRequestRepo, assetRepo, residentRepo, txManager, notificationService)
	documentService := service.NewDocumentService(documentRepo, residentRepo, store, generator, notificationService)
	blotterService := service.NewBlotterService(blotterRepo, notificationService)
	beneficiaryService := service.NewBeneficiaryService(beneficiaryRepo, store)
	disbursementService := service.NewDisbursementService(disbursementRepo, beneficiaryRepo)
	announcementService := service.NewAnnouncementService(announcementRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	residentHandler := handler.NewResidentHandler(residentService)
	assetHandler := handler.NewAssetHandler(assetService)
	assetRequestHandler := handler.NewAssetRequestHandler(assetRequestService)
	documentHandler := handler.NewDocumentHandler(documentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	blotterHandler := handler.NewBlotterHandler(blotterService)
	socialHandler := handler.NewSocialHandler(beneficiaryService, disbursementService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("")
	userHandler.RegisterRoutes(api)
	residentHandler.RegisterRoutes(api)
	assetHandler.RegisterRoutes(api)
	assetRequestHandler.RegisterRoutes(api)
	documentHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	blotterHandler.RegisterRoutes(api)
	socialHandler.RegisterRoutes(api)
	announcementHandler.RegisterRoutes(api)

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"timetable-ocr/ocr"
	"timetable-ocr/timetable"
)

// Global Variables and Constants
var (

	// Logger
	log = logrus.New()

	// Environment Variables (populated by loadConfig after .env loading)
	port              string
	logLevel          string
	uploadDir         string
	dbDir             string
	ocrProvider       string
	ocrLanguage       string
	ocrConcurrency    int
	googleProjectID   string
	googleLocation    string
	googleProcessorID string
	vapidPublicKey    string
	vapidPrivateKey   string
	vapidSubscriber   string
)

// App struct to hold dependencies
type App struct {
	Database *gorm.DB
	OCR      ocr.Provider
	Notifier *Notifier

	// ocrSlots bounds concurrent OCR passes; Tesseract is memory hungry
	// and one pass per upload is plenty of parallelism for this service.
	ocrSlots *semaphore.Weighted
}

func main() {
	// Load .env if present, then read configuration
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env")
	}
	loadConfig()

	// Initialize logrus logger
	initLogger()

	// Validate Environment Variables
	validateEnvVars()

	// Initialize Database
	database := InitializeDB()

	// Initialize OCR provider
	provider, err := ocr.NewProvider(ocr.Config{
		Provider:          ocrProvider,
		TesseractLanguage: ocrLanguage,
		GoogleProjectID:   googleProjectID,
		GoogleLocation:    googleLocation,
		GoogleProcessorID: googleProcessorID,
	})
	if err != nil {
		log.Fatalf("Failed to create OCR provider: %v", err)
	}

	// Initialize push notifier and restore stored schedules
	notifier := NewNotifier(database, NotifierConfig{
		VAPIDPublicKey:  vapidPublicKey,
		VAPIDPrivateKey: vapidPrivateKey,
		Subscriber:      vapidSubscriber,
	})
	if err := notifier.Start(); err != nil {
		log.Fatalf("Failed to start push notifier: %v", err)
	}
	defer notifier.Stop()

	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize App with dependencies
	app := &App{
		Database: database,
		OCR:      provider,
		Notifier: notifier,
		ocrSlots: semaphore.NewWeighted(int64(ocrConcurrency)),
	}

	// Create a Gin router with default middleware (logger and recovery)
	router := gin.Default()

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", healthHandler)

		api.GET("/timetable", app.getTimetablesHandler)
		api.POST("/timetable/upload", app.uploadTimetableHandler)

		push := api.Group("/push")
		{
			push.GET("/vapid-public-key", app.vapidPublicKeyHandler)
			push.POST("/subscribe", app.subscribeHandler)
			push.POST("/update-time", app.updateTimeHandler)
			push.POST("/unsubscribe", app.unsubscribeHandler)
			push.POST("/test", app.testPushHandler)
		}
	}

	// Serve stored uploads
	router.Static("/uploads", uploadDir)

	log.Infoln("Server started on port :" + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func loadConfig() {
	port = envOrDefault("PORT", "5000")
	logLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	uploadDir = envOrDefault("UPLOAD_DIR", "uploads")
	dbDir = envOrDefault("DB_DIR", "db")
	ocrProvider = envOrDefault("OCR_PROVIDER", "tesseract")
	ocrLanguage = envOrDefault("OCR_LANGUAGE", "eng")
	googleProjectID = os.Getenv("GOOGLE_PROJECT_ID")
	googleLocation = os.Getenv("GOOGLE_LOCATION")
	googleProcessorID = os.Getenv("GOOGLE_PROCESSOR_ID")
	vapidPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	vapidPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	vapidSubscriber = envOrDefault("VAPID_SUBSCRIBER", "mailto:attendance-tracker@example.com")

	ocrConcurrency = 2
	if v := os.Getenv("OCR_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("Invalid OCR_CONCURRENCY: %q", v)
		}
		ocrConcurrency = n
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func initLogger() {
	switch logLevel {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
		if logLevel != "" {
			log.Fatalf("Invalid log level: '%s'.", logLevel)
		}
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ocr.SetLogLevel(log.GetLevel())
	timetable.SetLogLevel(log.GetLevel())
}

// validateEnvVars ensures all necessary environment variables are set
func validateEnvVars() {
	if ocrProvider == "google_docai" {
		if googleProjectID == "" || googleLocation == "" || googleProcessorID == "" {
			log.Fatal("Please set GOOGLE_PROJECT_ID, GOOGLE_LOCATION and GOOGLE_PROCESSOR_ID for the google_docai provider.")
		}
	}

	if (vapidPublicKey == "") != (vapidPrivateKey == "") {
		log.Fatal("Please set both VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY, or neither.")
	}
	if vapidPublicKey == "" {
		log.Warn("VAPID keys not set; push notifications are disabled.")
	}
}

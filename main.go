// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Gabriel-Garrido/CuraMetric/config"
	"github.com/Gabriel-Garrido/CuraMetric/endpoint"
	"github.com/Gabriel-Garrido/CuraMetric/middleware"
	"github.com/Gabriel-Garrido/CuraMetric/model"
	"github.com/Gabriel-Garrido/CuraMetric/storage"
	"github.com/Gabriel-Garrido/CuraMetric/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Patient{},
		&model.Wound{},
		&model.WoundCare{},
		&model.User{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	util.SetSecurityLoggerDB(db)

	if _, err := config.ConnectRedis(); err != nil {
		// Redis is optional: without it the rate limiter and refresh
		// token revocation degrade gracefully.
		log.Printf("Redis unavailable: %v", err)
	}
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("GeoIP unavailable: %v", err)
	}

	media, err := storage.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Error initializing media storage: %v", err)
	}
	endpoint.SetMediaStorage(media)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	registerRoutes(router)

	// Wound photos stored on disk are served at the media base path.
	if cfg.MediaBackend == "disk" {
		router.Static(cfg.MediaBaseURL, cfg.MediaDir)
	}

	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func registerRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/registration", endpoint.Register)
		auth.POST("/login", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.Login)
		auth.POST("/logout", endpoint.Logout)
		auth.POST("/token/refresh", endpoint.RefreshToken)
		auth.POST("/google", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.GoogleAuth)
	}

	api := router.Group("/api", middleware.AuthRequired())
	{
		api.GET("/patients", endpoint.ListPatients)
		api.POST("/patients", endpoint.CreatePatient)
		api.GET("/patients/:id", endpoint.GetPatientInfo)
		api.PUT("/patients/:id", endpoint.ReplacePatient)
		api.PATCH("/patients/:id", endpoint.UpdatePatient)
		api.DELETE("/patients/:id", endpoint.DeletePatient)

		api.GET("/wounds", endpoint.ListWounds)
		api.POST("/wounds", endpoint.CreateWound)
		api.GET("/wounds/:id", endpoint.GetWoundInfo)
		api.PUT("/wounds/:id", endpoint.ReplaceWound)
		api.PATCH("/wounds/:id", endpoint.UpdateWound)
		api.DELETE("/wounds/:id", endpoint.DeleteWound)

		api.GET("/wound_cares", endpoint.ListWoundCares)
		api.POST("/wound_cares", endpoint.CreateWoundCare)
		api.GET("/wound_cares/:id", endpoint.GetWoundCareInfo)
		api.PUT("/wound_cares/:id", endpoint.ReplaceWoundCare)
		api.PATCH("/wound_cares/:id", endpoint.UpdateWoundCare)
		api.DELETE("/wound_cares/:id", endpoint.DeleteWoundCare)
	}
}

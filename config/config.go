package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBHost string `json:"dbhost"`
	DBPort uint16 `json:"dbport"`
	DBName string `json:"dbname"`
	DBUser string `json:"dbuser"`
	DBPass string `json:"dbpass"`

	// GoogleClientID is the OAuth client id Google ID tokens must be
	// issued for (the verifier's audience check).
	GoogleClientID string `json:"googleclientid"`

	// Media storage. MediaBackend selects "disk" (default) or "minio".
	MediaBackend string `json:"mediabackend"`
	MediaDir     string `json:"mediadir"`
	MediaBaseURL string `json:"mediabaseurl"`

	MinioEndpoint string `json:"minioendpoint"`
	MinioAccess   string `json:"minioaccess"`
	MinioSecret   string `json:"miniosecret"`
	MinioBucket   string `json:"miniobucket"`
	MinioUseSSL   bool   `json:"miniousessl"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env file is fine when everything is configured
		// through real environment variables.
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		minioSSL, _ := strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:        os.Getenv("APPNAME"),
			AppEnv:         os.Getenv("APPENV"),
			AppPort:        uint16(appPort),
			GinMode:        os.Getenv("GINMODE"),
			DBHost:         os.Getenv("DBHOST"),
			DBPort:         uint16(dbPort),
			DBName:         os.Getenv("DBNAME"),
			DBUser:         os.Getenv("DBUSER"),
			DBPass:         os.Getenv("DBPASS"),
			GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
			MediaBackend:   os.Getenv("MEDIA_BACKEND"),
			MediaDir:       os.Getenv("MEDIA_DIR"),
			MediaBaseURL:   os.Getenv("MEDIA_BASE_URL"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccess:    os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecret:    os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    os.Getenv("MINIO_BUCKET"),
			MinioUseSSL:    minioSSL,
		}
		if config.MediaDir == "" {
			config.MediaDir = "media"
		}
		if config.MediaBaseURL == "" {
			config.MediaBaseURL = "/media"
		}
		if config.MediaBackend == "" {
			config.MediaBackend = "disk"
		}
	})
	return config
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

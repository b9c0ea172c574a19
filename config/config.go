package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	CertificateSecret string // HMAC secret for certificate verification hashes
	CertFontPath      string // TTF used by the certificate renderer

	StorageEndpoint string // storage zone API endpoint
	StorageZone     string
	StorageApiKey   string
	StorageBaseURL  string // public pull-zone base for uploaded files
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		CertificateSecret: getEnv("CERTIFICATE_SECRET", "defaultSecret"),
		CertFontPath:      getEnv("CERT_FONT_PATH", "./assets/fonts/DejaVuSans.ttf"),

		StorageEndpoint: getEnv("STORAGE_ENDPOINT", "https://storage.bunnycdn.com"),
		StorageZone:     getEnv("STORAGE_ZONE", "lms-certificates"),
		StorageApiKey:   getEnv("STORAGE_API_KEY", "defaultSecret"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", "https://lms-cdn.b-cdn.net"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.CertificateSecret == "defaultSecret" {
		log.Println("Warning: Using default CERTIFICATE_SECRET. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

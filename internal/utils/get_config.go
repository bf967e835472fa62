package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Server configuration
	AppPort  string `yaml:"APP_PORT"`
	LogLevel string `yaml:"LOG_LEVEL"`

	// JWT configuration
	JWTSecret string `yaml:"JWT_SECRET"`

	// Batch sweep caller secret (shared with the scheduler, not a user token)
	BatchSecret string `yaml:"BATCH_SECRET"`

	// CORS allow-list, comma separated
	AllowedOrigins string `yaml:"ALLOWED_ORIGINS"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Gemini API configuration
	GeminiAPIKey    string `yaml:"GEMINI_API_KEY"`
	GeminiModel     string `yaml:"GEMINI_MODEL"`
	GeminiMaxTokens int    `yaml:"GEMINI_MAX_TOKENS"`

	// Web push (VAPID) configuration
	VAPIDPublicKey  string `yaml:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `yaml:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string `yaml:"VAPID_SUBJECT"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// AppConfig returns the loaded configuration so wiring code can hand explicit
// sub-configs to constructors instead of reading ambient state.
func AppConfig() Config {
	return config
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "APP_PORT":
		return config.AppPort
	case "LOG_LEVEL":
		return config.LogLevel
	case "JWT_SECRET":
		return config.JWTSecret
	case "BATCH_SECRET":
		return config.BatchSecret
	case "ALLOWED_ORIGINS":
		return config.AllowedOrigins
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	case "VAPID_PUBLIC_KEY":
		return config.VAPIDPublicKey
	case "VAPID_PRIVATE_KEY":
		return config.VAPIDPrivateKey
	case "VAPID_SUBJECT":
		return config.VAPIDSubject
	default:
		return ""
	}
}

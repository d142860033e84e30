package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by STORE_BACKEND.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	ServerPort string
	AppEnv     string
	StaticDir  string

	JWTSecret    string
	JWTExpiresIn time.Duration

	StoreBackend string
	StoreTimeout time.Duration
	UsersSheet   string
	PostsSheet   string

	SpreadsheetID         string
	GoogleCredentialsFile string
	GoogleProjectID       string
	GooglePrivateKeyID    string
	GooglePrivateKey      string
	GoogleClientEmail     string
	GoogleClientID        string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
}

// IsProduction reports whether cookies should carry the Secure flag.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadConfig reads .env (if any) and the process environment.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = os.Getenv("PORT")
	}
	if serverPort == "" {
		serverPort = "3000"
	}

	jwtExpiresIn, err := getEnvAsDuration("JWT_EXPIRES_IN", time.Hour)
	if err != nil {
		return nil, err
	}
	if jwtExpiresIn <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	storeTimeout, err := getEnvAsDuration("STORE_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvAsString("STORE_BACKEND", BackendSheets))
	switch backend {
	case BackendSheets, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	return &Config{
		ServerPort: serverPort,
		AppEnv:     getEnvAsString("APP_ENV", getEnvAsString("NODE_ENV", "development")),
		StaticDir:  os.Getenv("STATIC_DIR"),

		JWTSecret:    getEnvAsString("JWT_SECRET", "egunkari-secret-key"),
		JWTExpiresIn: jwtExpiresIn,

		StoreBackend: backend,
		StoreTimeout: storeTimeout,
		UsersSheet:   getEnvAsString("USERS_SHEET", "egunkari_users"),
		PostsSheet:   getEnvAsString("POSTS_SHEET", "egunkari_posts"),

		SpreadsheetID:         os.Getenv("SPREADSHEET_ID"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleProjectID:       os.Getenv("PROJECT_ID"),
		GooglePrivateKeyID:    os.Getenv("PRIVATE_KEY_ID"),
		// Keys pasted into .env usually carry literal \n sequences.
		GooglePrivateKey:  strings.ReplaceAll(os.Getenv("PRIVATE_KEY"), `\n`, "\n"),
		GoogleClientEmail: os.Getenv("CLIENT_EMAIL"),
		GoogleClientID:    os.Getenv("CLIENT_ID"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnvAsString("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnvAsString("DB_SSLMODE", "require"),

		RedisURL: os.Getenv("REDIS_URL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
	}, nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

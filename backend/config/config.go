package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	ServerPort string

	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration
	DBConnMaxLifetime time.Duration

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	UploadDir       string
	UploadMaxSizeMB int

	CORSOrigins   string
	RateLimitAPI  int
	RateLimitAuth int

	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string

	APIURL      string
	SessionFile string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "course_platform"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBDSN:             getEnv("DB_DSN", ""),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Second),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:   getEnvInt("BCRYPT_COST", 12),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxSizeMB: getEnvInt("UPLOAD_MAX_SIZE_MB", 50),

		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		RateLimitAPI:  getEnvInt("RATE_LIMIT_API", 500),
		RateLimitAuth: getEnvInt("RATE_LIMIT_AUTH", 20),

		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", ""),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", ""),
		SuperAdminName:     getEnv("SUPER_ADMIN_NAME", "Администратор"),

		APIURL:      getEnv("API_URL", "http://localhost:8080/api"),
		SessionFile: getEnv("SESSION_FILE", defaultSessionFile()),
	}, nil
}

// IsProduction сообщает, нужно ли скрывать текст внутренних ошибок
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UploadMaxBytes возвращает лимит загрузки в байтах
func (c *Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxSizeMB) * 1024 * 1024
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courseplatform-session.json"
	}
	return filepath.Join(home, ".courseplatform", "session.json")
}

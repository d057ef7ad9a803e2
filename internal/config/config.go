package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends selectable with BACKEND.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendREST   = "rest"
	BackendMySQL  = "mysql"
)

type Config struct {
	Port    string
	Backend string

	MongoURI string
	MongoDB  string

	RestURL string
	RestKey string

	MySQLDSN string

	CloudinaryURL string

	AdminEmails    []string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	FeaturedLimit  int

	LogLevel string
	DevMode  bool
}

func LoadConfig() *Config {
	// .env is only present in local development
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Backend:        strings.ToLower(getEnv("BACKEND", BackendMemory)),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "artwall"),
		RestURL:        getEnv("REST_URL", ""),
		RestKey:        getEnv("REST_KEY", ""),
		MySQLDSN:       getEnv("MYSQL_DSN", ""),
		CloudinaryURL:  getEnv("CLOUDINARY_URL", ""),
		AdminEmails:    splitList(getEnv("ADMIN_EMAILS", "")),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		FeaturedLimit:  getInt("FEATURED_LIMIT", 6),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getBool("DEV_MODE", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

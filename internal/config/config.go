package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Port           string
	ServiceName    string
	ServiceID      string
	ServiceAddress string
	AllowedOrigins []string
	LogDir         string

	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURI      string
	RabbitMQExchange string

	ConsulAddress string

	JWTSecret string

	GeminiAPIKey  string
	GeminiModels  []string
	SupplyTimeout time.Duration
}

// Load reads .env when present and builds the config from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	return New()
}

func New() *Config {
	serviceName := getEnv("ASSESSMENT_SERVICE_NAME", "assessment-service")
	return &Config{
		Port:           getEnv("PORT", "6666"),
		ServiceName:    serviceName,
		ServiceID:      serviceName + "-" + getEnv("ASSESSMENT_HOSTNAME", "1"),
		ServiceAddress: getEnv("ASSESSMENT_SERVICE_ADDRESS", "assessment-service"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogDir:         getEnv("LOG_DIR", ""),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DB", "assessment_service"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PWD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("QUESTION_CACHE_TTL", time.Hour),

		RabbitMQURI:      getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "assessment.events"),

		ConsulAddress: getEnv("CONSUL_ADDR", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModels:  splitList(getEnv("GEMINI_MODELS", "")),
		SupplyTimeout: getEnvDuration("SUPPLY_TIMEOUT", 20*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using %v", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

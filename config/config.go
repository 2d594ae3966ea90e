package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const productionEnv = "production"

type Config struct {
	ServerPort  int
	AppEnv      string
	LogLevel    string
	CORSOrigins []string
	Database    DatabaseConfig
	Session     SessionConfig
	Google      GoogleConfig
	Gemini      GeminiConfig
	Storage     StorageConfig
	MQ          MQConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// SessionConfig controls the session cookie and its backing store.
// When RedisAddr is empty sessions are kept in process memory.
type SessionConfig struct {
	Secret        string
	Generated     bool
	Lifetime      time.Duration
	SecureCookie  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in can be offered.
func (g GoogleConfig) Enabled() bool {
	return strings.TrimSpace(g.ClientID) != "" && strings.TrimSpace(g.ClientSecret) != ""
}

// GeminiConfig selects the Gemini endpoint. An empty BaseURL uses the SDK default.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
}

type StorageConfig struct {
	// Backend is one of "minio", "gcs" or "" (building pages disabled).
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MQConfig struct {
	// Backend is one of "rabbitmq", "pubsub" or "" (events disabled).
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "campusboard"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "campusboard_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	appEnv := getEnv("APP_ENV", "development")

	sessionConfig := SessionConfig{
		Secret:        strings.TrimSpace(getEnv("SESSION_SECRET", "")),
		Lifetime:      getEnvDuration("SESSION_LIFETIME", 24*time.Hour),
		SecureCookie:  getEnvBool("SESSION_SECURE_COOKIE", appEnv == productionEnv),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		KeyPrefix:     getEnv("REDIS_KEY_PREFIX", "campusboard:session:"),
	}
	if sessionConfig.Secret == "" && appEnv != productionEnv {
		sessionConfig.Secret = randomSecret()
		sessionConfig.Generated = true
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		AppEnv:      appEnv,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8080"}),
		Database:    dbConfig,
		Session:     sessionConfig,
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/callback"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GENAI_API_KEY", ""),
			Model:      getEnv("GENAI_MODEL", "gemini-1.5-flash"),
			BaseURL:    getEnv("GENAI_BASE_URL", ""),
			APIVersion: getEnv("GENAI_API_VERSION", "v1beta"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "")),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "campusboard-pages"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		MQ: MQConfig{
			Backend: strings.ToLower(getEnv("MQ_BACKEND", "")),
			Channel: getEnv("MQ_CHANNEL", "campusboard.content"),
			RabbitMQ: RabbitMQConfig{
				URL:             getEnv("RABBITMQ_URL", ""),
				QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
				QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
				PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH_COUNT", 10),
			},
			PubSub: PubSubConfig{
				ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
				SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
			},
		},
	}
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.AppEnv == productionEnv
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		return errors.New("session secret is empty")
	}
	switch c.Storage.Backend {
	case "", "minio", "gcs":
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.MQ.Backend {
	case "", "rabbitmq", "pubsub":
	default:
		return fmt.Errorf("unsupported MQ_BACKEND %q", c.MQ.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := time.ParseDuration(strings.TrimSpace(valueStr))
		if err != nil || value <= 0 {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func randomSecret() string {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("config: read random secret: %v", err))
	}
	return hex.EncodeToString(buf[:])
}

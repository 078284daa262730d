package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	SchemeToken = "token"
	SchemeJWT   = "jwt"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	BrokerMQTT = "mqtt"
	BrokerAMQP = "amqp"
	BrokerNone = "none"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Reset     ResetConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	Events    EventsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StorageConfig struct {
	Driver string
}

type AuthConfig struct {
	Scheme          string
	JWTSecret       string
	TokenTTL        time.Duration
	CleanupInterval time.Duration
	CleanupRetain   time.Duration

	// Bootstrap admin, created at startup when AdminUsername is set and absent.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type ResetConfig struct {
	TTL         time.Duration
	FrontendURL string
	FromEmail   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// RedisConfig backs the signed-token denylist. An empty Addr selects the
// in-process denylist.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EventsConfig struct {
	Broker        string
	SupplierTopic string
	Timeout       time.Duration
	MQTT          MQTTConfig
	AMQP          AMQPConfig
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

type AMQPConfig struct {
	URL string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Login, registration and password reset
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)

	viper.SetDefault("AUTH_SCHEME", SchemeToken)
	viper.SetDefault("AUTH_TOKEN_TTL", "168h")
	viper.SetDefault("AUTH_CLEANUP_INTERVAL", "1h")
	viper.SetDefault("AUTH_CLEANUP_RETAIN", "24h")

	viper.SetDefault("RESET_TOKEN_TTL", "24h")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("RESET_FROM_EMAIL", "noreply@localhost")

	viper.SetDefault("SMTP_PORT", 587)

	viper.SetDefault("EVENT_BROKER", BrokerNone)
	viper.SetDefault("EVENT_SUPPLIER_TOPIC", "supplier-events")
	viper.SetDefault("EVENT_PUBLISH_TIMEOUT", "5s")
	viper.SetDefault("MQTT_CLIENT_ID", "auth-service")
	viper.SetDefault("MQTT_QOS", 1)

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	viper.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	viper.SetDefault("RATE_LIMIT_AUTH_BURST", 5)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	viper.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	viper.SetDefault("CORS_MAX_AGE", 43200)
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Storage: StorageConfig{
			Driver: viper.GetString("STORAGE_DRIVER"),
		},
		Auth: AuthConfig{
			Scheme:          viper.GetString("AUTH_SCHEME"),
			JWTSecret:       viper.GetString("JWT_SECRET"),
			TokenTTL:        viper.GetDuration("AUTH_TOKEN_TTL"),
			CleanupInterval: viper.GetDuration("AUTH_CLEANUP_INTERVAL"),
			CleanupRetain:   viper.GetDuration("AUTH_CLEANUP_RETAIN"),
			AdminUsername:   viper.GetString("ADMIN_USERNAME"),
			AdminEmail:      viper.GetString("ADMIN_EMAIL"),
			AdminPassword:   viper.GetString("ADMIN_PASSWORD"),
		},
		Reset: ResetConfig{
			TTL:         viper.GetDuration("RESET_TOKEN_TTL"),
			FrontendURL: viper.GetString("FRONTEND_URL"),
			FromEmail:   viper.GetString("RESET_FROM_EMAIL"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Events: EventsConfig{
			Broker:        viper.GetString("EVENT_BROKER"),
			SupplierTopic: viper.GetString("EVENT_SUPPLIER_TOPIC"),
			Timeout:       viper.GetDuration("EVENT_PUBLISH_TIMEOUT"),
			MQTT: MQTTConfig{
				Broker:   viper.GetString("MQTT_BROKER"),
				ClientID: viper.GetString("MQTT_CLIENT_ID"),
				Username: viper.GetString("MQTT_USERNAME"),
				Password: viper.GetString("MQTT_PASSWORD"),
				QoS:      byte(viper.GetUint("MQTT_QOS")),
			},
			AMQP: AMQPConfig{
				URL: viper.GetString("AMQP_URL"),
			},
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      viper.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    viper.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	switch c.Auth.Scheme {
	case SchemeToken:
	case SchemeJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_SCHEME=jwt")
		}
	default:
		return fmt.Errorf("unknown AUTH_SCHEME %q", c.Auth.Scheme)
	}

	switch c.Storage.Driver {
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required when STORAGE_DRIVER=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Events.Broker {
	case BrokerNone:
	case BrokerMQTT:
		if c.Events.MQTT.Broker == "" {
			return errors.New("MQTT_BROKER is required when EVENT_BROKER=mqtt")
		}
	case BrokerAMQP:
		if c.Events.AMQP.URL == "" {
			return errors.New("AMQP_URL is required when EVENT_BROKER=amqp")
		}
	default:
		return fmt.Errorf("unknown EVENT_BROKER %q", c.Events.Broker)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.Auth.CleanupInterval <= 0 {
		return errors.New("AUTH_CLEANUP_INTERVAL must be positive")
	}
	if c.Reset.TTL <= 0 {
		return errors.New("RESET_TOKEN_TTL must be positive")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

package config

import (
	"crypto/rsa"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

func New() Config {
	return Config{
		Environment:    requireEnv("ENVIRONMENT"),
		BasePath:       optionalEnv("BASE_PATH", ""),
		Hostname:       requireEnv("HOSTNAME"),
		UIURL:          requireEnv("UI_URL"),
		AllowedOrigins: strings.Fields(optionalEnv("ALLOWED_ORIGINS", "")),
		SameSiteMode:   requireSameSiteMode("SAME_SITE_MODE"),
		TimeZone:       requireLocation("TIME_ZONE"),
		Logging: Logging{
			Level:  requireLogLevel("LOG_LEVEL"),
			Pretty: optionalEnvAsBool("LOG_PRETTY", false),
		},
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: Redis{
			Host:     requireEnv("REDIS_HOST"),
			Port:     requireEnvAsInt("REDIS_PORT"),
			Password: optionalEnv("REDIS_PASSWORD", ""),
			DB:       optionalEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQ{
			Host:     requireEnv("RABBITMQ_HOST"),
			Port:     requireEnvAsInt("RABBITMQ_PORT"),
			Username: requireEnv("RABBITMQ_USERNAME"),
			Password: requireEnv("RABBITMQ_PASSWORD"),
			Queue:    optionalEnv("RABBITMQ_NOTIFICATION_QUEUE", "notifications"),
		},
		SMTP: SMTP{
			Host:     requireEnv("SMTP_HOST"),
			Port:     requireEnvAsInt("SMTP_PORT"),
			Username: requireEnv("SMTP_USERNAME"),
			Password: requireEnv("SMTP_PASSWORD"),
			From:     optionalEnv("SMTP_FROM", "Campus Events <no-reply@campusevents.com>"),
		},
		ObjectStorage: ObjectStorage{
			Kind:      requireObjectStore("OBJECT_STORE"),
			Bucket:    requireEnv("OBJECT_STORE_BUCKET"),
			Region:    optionalEnv("OBJECT_STORE_REGION", "eu-west-1"),
			Endpoint:  optionalEnv("OBJECT_STORE_ENDPOINT", ""),
			AccessKey: optionalEnv("OBJECT_STORE_ACCESS_KEY", ""),
			SecretKey: optionalEnv("OBJECT_STORE_SECRET_KEY", ""),
			UseSSL:    optionalEnvAsBool("OBJECT_STORE_USE_SSL", true),
			PublicURL: requireEnv("OBJECT_STORE_PUBLIC_URL"),
		},
		Authentication: Authentication{
			Keys: Keys{
				PrivateKey: requireEnv("PRIVATE_KEY"),
			},
			AccessTokenExpirationSeconds:  requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenSecretKey:         requireEnv("REFRESH_TOKEN_SECRET_KEY"),
			RefreshTokenExpirationSeconds: requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
		},
		AdminUser: User{
			Email:    requireEnv("ADMIN_USER_EMAIL"),
			Password: requireEnv("ADMIN_USER_PASSWORD"),
		},
		Reminder: Reminder{
			Schedule: optionalEnv("REMINDER_SCHEDULE", "*/5 * * * *"),
			LeadTime: requireEnvAsDuration("REMINDER_LEAD_TIME"),
		},
		Tracing: Tracing{
			JaegerEndpoint: optionalEnv("JAEGER_ENDPOINT", ""),
		},
	}
}

type Config struct {
	Environment    string
	BasePath       string
	Hostname       string
	UIURL          string
	AllowedOrigins []string
	SameSiteMode   http.SameSite
	TimeZone       *time.Location
	Logging        Logging
	Postgresql     Postgresql
	Redis          Redis
	RabbitMQ       RabbitMQ
	SMTP           SMTP
	ObjectStorage  ObjectStorage
	Authentication Authentication
	AdminUser      User
	Reminder       Reminder
	Tracing        Tracing
}

type Logging struct {
	Level  slog.Level
	Pretty bool
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	// DB is the logical database refresh tokens are stored in
	DB int
}

type RabbitMQ struct {
	Host     string
	Port     int
	Username string
	Password string
	Queue    string
}

func (r RabbitMQ) GetUrl() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

const (
	ObjectStoreS3    = "s3"
	ObjectStoreMinio = "minio"
)

type ObjectStorage struct {
	// Kind is either s3 or minio
	Kind      string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL is the URL objects are served from. The object key is appended to it.
	PublicURL string
}

type Authentication struct {
	Keys                          Keys
	AccessTokenExpirationSeconds  int
	RefreshTokenSecretKey         string
	RefreshTokenExpirationSeconds int
}

type Keys struct {
	PrivateKey string
}

// GetPrivateKey parses the PEM encoded private key.
func (k Keys) GetPrivateKey() (*rsa.PrivateKey, error) {
	key, err := jwk.ParseKey([]byte(k.PrivateKey), jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	var privateKey rsa.PrivateKey
	if err := key.Raw(&privateKey); err != nil {
		return nil, fmt.Errorf("private key is not an RSA key: %v", err)
	}

	return &privateKey, nil
}

type User struct {
	Email    string
	Password string
}

type Reminder struct {
	// Schedule is a cron spec like "*/5 * * * *"
	Schedule string
	// LeadTime is how long before the start of an event its registrants are reminded
	LeadTime time.Duration
}

type Tracing struct {
	JaegerEndpoint string
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func optionalEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func optionalEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value of %s as integer: %s", key, err.Error())
	}
	return value
}

func optionalEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value of %s as bool: %s", key, err.Error())
	}
	return value
}

func requireEnvAsDuration(key string) time.Duration {
	valueStr := requireEnv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value of %s as duration: %s", key, err.Error())
	}
	return value
}

func requireLogLevel(key string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(optionalEnv(key, "info"))); err != nil {
		log.Fatalf("Can't parse value of %s as log level: %s", key, err.Error())
	}
	return level
}

func requireLocation(key string) *time.Location {
	location, err := time.LoadLocation(optionalEnv(key, "UTC"))
	if err != nil {
		log.Fatalf("Can't parse value of %s as time zone: %s", key, err.Error())
	}
	return location
}

func requireObjectStore(key string) string {
	value := optionalEnv(key, ObjectStoreS3)
	if value != ObjectStoreS3 && value != ObjectStoreMinio {
		log.Fatalf("%s must be either %q or %q, got %q", key, ObjectStoreS3, ObjectStoreMinio, value)
	}
	return value
}

func requireSameSiteMode(key string) http.SameSite {
	sameSiteMode := optionalEnv(key, "strict")
	switch sameSiteMode {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	}
	log.Fatalf("%s must be one of strict, lax or none, got %q", key, sameSiteMode)
	return http.SameSiteDefaultMode
}

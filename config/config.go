package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServiceName string `mapstructure:"SERVICE_NAME"`

	// Ingress.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	MaxBodyBytes   int64    `mapstructure:"MAX_BODY_BYTES"`
	PathPrefixes   []string `mapstructure:"PATH_PREFIXES"`
	// TrustedProxyHops is how many reverse proxies append to X-Forwarded-For
	// in front of the service. Zero ignores the header entirely.
	TrustedProxyHops int `mapstructure:"TRUSTED_PROXY_HOPS"`

	// Rate limits per route group.
	GeneralRateLimit   int           `mapstructure:"GENERAL_RATE_LIMIT"`
	GeneralRateWindow  time.Duration `mapstructure:"GENERAL_RATE_WINDOW"`
	AuthRateLimit      int           `mapstructure:"AUTH_RATE_LIMIT"`
	AuthRateWindow     time.Duration `mapstructure:"AUTH_RATE_WINDOW"`
	RegisterRateLimit  int           `mapstructure:"REGISTER_RATE_LIMIT"`
	RegisterRateWindow time.Duration `mapstructure:"REGISTER_RATE_WINDOW"`
	OTPRateLimit       int           `mapstructure:"OTP_RATE_LIMIT"`
	OTPRateWindow      time.Duration `mapstructure:"OTP_RATE_WINDOW"`

	// Storage.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// OTP.
	OTPStore    string        `mapstructure:"OTP_STORE"`
	OTPTTL      time.Duration `mapstructure:"OTP_TTL"`
	OTPHashCost int           `mapstructure:"OTP_HASH_COST"`

	// Email.
	EmailProvider string        `mapstructure:"EMAIL_PROVIDER"`
	ResendAPIKey  string        `mapstructure:"RESEND_API_KEY"`
	EmailFrom     string        `mapstructure:"EMAIL_FROM"`
	EmailOpsTo    string        `mapstructure:"EMAIL_OPS_TO"`
	NotifyQueue   string        `mapstructure:"NOTIFY_QUEUE"`
	NotifyTimeout time.Duration `mapstructure:"NOTIFY_TIMEOUT"`

	// Daily digest.
	DigestSchedule string        `mapstructure:"DIGEST_SCHEDULE"`
	DigestTimezone string        `mapstructure:"DIGEST_TIMEZONE"`
	DigestWindow   time.Duration `mapstructure:"DIGEST_WINDOW"`

	// Registration pipeline.
	MinSubmitDurationMS   int    `mapstructure:"MIN_SUBMIT_DURATION_MS"`
	TestSkipTransactionID string `mapstructure:"TEST_SKIP_TRANSACTION_ID"`
	SendConfirmationEmail bool   `mapstructure:"SEND_CONFIRMATION_EMAIL"`
	StrictPersistence     bool   `mapstructure:"STRICT_PERSISTENCE"`

	// Payment tags stamped on every record.
	PaymentMethod      string  `mapstructure:"PAYMENT_METHOD"`
	PaymentMode        string  `mapstructure:"PAYMENT_MODE"`
	RegistrationAmount float64 `mapstructure:"REGISTRATION_AMOUNT"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.AllowedOrigins = splitList(AppConfig.AllowedOrigins)
	AppConfig.PathPrefixes = splitList(AppConfig.PathPrefixes)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVICE_NAME", "vexstorm-backend")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("MAX_BODY_BYTES", 10*1024)
	v.SetDefault("PATH_PREFIXES", "/.netlify/functions/api,/api")
	v.SetDefault("TRUSTED_PROXY_HOPS", 1)

	// Sized for whole college labs sharing one NAT address.
	v.SetDefault("GENERAL_RATE_LIMIT", 500)
	v.SetDefault("GENERAL_RATE_WINDOW", "15m")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("AUTH_RATE_WINDOW", "1h")
	v.SetDefault("REGISTER_RATE_LIMIT", 500)
	v.SetDefault("REGISTER_RATE_WINDOW", "24h")
	v.SetDefault("OTP_RATE_LIMIT", 50)
	v.SetDefault("OTP_RATE_WINDOW", "15m")

	v.SetDefault("STORAGE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "vexstorm")
	v.SetDefault("POSTGRES_URL", "")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_OTP_DB", 2)
	v.SetDefault("REDIS_QUEUE_DB", 3)

	v.SetDefault("OTP_STORE", "memory")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_HASH_COST", 10)

	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "VexStorm 26 <noreply@vexstorm.dev>")
	v.SetDefault("EMAIL_OPS_TO", "team@vexstorm.dev")
	v.SetDefault("NOTIFY_QUEUE", "inline")
	v.SetDefault("NOTIFY_TIMEOUT", "15s")

	v.SetDefault("DIGEST_SCHEDULE", "0 9 * * *")
	v.SetDefault("DIGEST_TIMEZONE", "Local")
	v.SetDefault("DIGEST_WINDOW", "24h")

	v.SetDefault("MIN_SUBMIT_DURATION_MS", 5000)
	v.SetDefault("TEST_SKIP_TRANSACTION_ID", "TEST_PAYMENT_SKIP")
	v.SetDefault("SEND_CONFIRMATION_EMAIL", true)
	v.SetDefault("STRICT_PERSISTENCE", false)

	v.SetDefault("PAYMENT_METHOD", "MANUAL_Payment")
	v.SetDefault("PAYMENT_MODE", "QR_CODE_MODE")
	v.SetDefault("REGISTRATION_AMOUNT", 350)
}

// splitList flattens comma separated entries coming from env vars and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

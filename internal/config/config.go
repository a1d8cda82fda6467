package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// AdminEmails is the allow-list of operator emails, lower-cased.
	// Loaded once at startup and never mutated afterwards.
	AdminEmails []string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string // empty disables banner event publishing

	JWTSecret string
	JWTExpiry time.Duration

	OTPLength      int
	OTPTTL         time.Duration
	OTPMaxAttempts int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	ShopifyDomain          string
	ShopifyStorefrontToken string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Banners string
	OTPs    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AdminEmails: splitLower(getEnv("ADMIN_EMAILS", "")),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Banners: getEnv("DYNAMO_TABLE_BANNERS", "banners"),
			OTPs:    getEnv("DYNAMO_TABLE_OTPS", "login_otps"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "banner-images"),
		SNSTopicARN:  getEnv("SNS_BANNER_EVENTS_TOPIC_ARN", ""),

		JWTSecret: getEnv("JWT_SECRET_KEY", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRATION", 86400)) * time.Second,

		OTPLength:      getEnvInt("OTP_LENGTH", 6),
		OTPTTL:         time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		ShopifyDomain:          getEnv("SHOPIFY_DOMAIN", ""),
		ShopifyStorefrontToken: getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// splitLower splits a comma-separated list, trimming whitespace and
// lower-casing entries. Empty entries are dropped.
func splitLower(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

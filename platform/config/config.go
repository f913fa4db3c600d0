// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int32
}

// JWTConfig provides the secret used to verify externally issued access tokens.
type JWTConfig interface {
	GetAuthJWTSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOPublicBaseURL() string
	GetMinioBucketTemplateAttachments() string
	GetAttachmentMaxBytes() int64
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for direct email delivery.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsSMTPEnabled() bool
}

// WhatsAppConfig provides settings for the GOWA WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
	IsWhatsAppEnabled() bool
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	IsSchedulerEnabled() bool
}

// GeneratorConfig provides settings for the external message generator boundary.
type GeneratorConfig interface {
	GetGeneratorWebhookURL() string
	GetGeneratorAPIKey() string
	GetGeneratorTimeout() time.Duration
}

// OutreachConfig provides settings for channel launchers and template seeding.
type OutreachConfig interface {
	GetPhoneDefaultRegion() string
	GetTemplateSeedFile() string
}

// ExportConfig provides the key for the machine-readable lead feed.
type ExportConfig interface {
	GetExportAPIKey() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                            string
	HTTPAddr                       string
	DatabaseURL                    string
	DatabaseMaxConns               int32
	AuthJWTSecret                  string
	CORSAllowAll                   bool
	CORSOrigins                    []string
	CORSAllowCreds                 bool
	MinIOEndpoint                  string
	MinIOAccessKey                 string
	MinIOSecretKey                 string
	MinIOUseSSL                    bool
	MinIOPublicBaseURL             string
	MinioBucketTemplateAttachments string
	AttachmentMaxBytes             int64
	SMTPHost                       string
	SMTPPort                       int
	SMTPUsername                   string
	SMTPPassword                   string
	EmailFromName                  string
	EmailFromAddress               string
	WhatsAppURL                    string
	WhatsAppKey                    string
	WhatsAppDeviceID               string
	RedisURL                       string
	RedisTLSInsecure               bool
	AsynqQueueName                 string
	AsynqConcurrency               int
	GeneratorWebhookURL            string
	GeneratorAPIKey                string
	GeneratorTimeout               time.Duration
	PhoneDefaultRegion             string
	TemplateSeedFile               string
	ExportAPIKey                   string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int32 { return c.DatabaseMaxConns }

// JWTConfig implementation
func (c *Config) GetAuthJWTSecret() string { return c.AuthJWTSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOPublicBaseURL() string { return c.MinIOPublicBaseURL }
func (c *Config) GetMinioBucketTemplateAttachments() string {
	return c.MinioBucketTemplateAttachments
}
func (c *Config) GetAttachmentMaxBytes() int64 { return c.AttachmentMaxBytes }
func (c *Config) IsMinIOEnabled() bool         { return c.MinIOEndpoint != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsSMTPEnabled() bool         { return c.SMTPHost != "" }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }
func (c *Config) IsWhatsAppEnabled() bool     { return c.WhatsAppURL != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// GeneratorConfig implementation
func (c *Config) GetGeneratorWebhookURL() string     { return c.GeneratorWebhookURL }
func (c *Config) GetGeneratorAPIKey() string         { return c.GeneratorAPIKey }
func (c *Config) GetGeneratorTimeout() time.Duration { return c.GeneratorTimeout }

// OutreachConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }
func (c *Config) GetTemplateSeedFile() string   { return c.TemplateSeedFile }

// ExportConfig implementation
func (c *Config) GetExportAPIKey() string { return c.ExportAPIKey }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                            getEnv("APP_ENV", "development"),
		HTTPAddr:                       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                    getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:               int32(mustInt64(getEnv("DB_MAX_CONNS", "10"))),
		AuthJWTSecret:                  getEnv("AUTH_JWT_SECRET", ""),
		CORSAllowAll:                   corsAllowAll,
		CORSOrigins:                    corsOrigins,
		CORSAllowCreds:                 strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		MinIOEndpoint:                  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:                 getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:                 getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOPublicBaseURL:             strings.TrimRight(getEnv("MINIO_PUBLIC_BASE_URL", ""), "/"),
		MinioBucketTemplateAttachments: getEnv("MINIO_BUCKET_TEMPLATE_ATTACHMENTS", "template-allegati"),
		AttachmentMaxBytes:             mustInt64(getEnv("ATTACHMENT_MAX_BYTES", "10485760")),
		SMTPHost:                       getEnv("SMTP_HOST", ""),
		SMTPPort:                       int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:                   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                   getEnv("SMTP_PASSWORD", ""),
		EmailFromName:                  getEnv("EMAIL_FROM_NAME", "Lead Outreach"),
		EmailFromAddress:               getEnv("EMAIL_FROM_ADDRESS", ""),
		WhatsAppURL:                    strings.TrimRight(getEnv("WHATSAPP_URL", ""), "/"),
		WhatsAppKey:                    getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:               getEnv("WHATSAPP_DEVICE_ID", ""),
		RedisURL:                       getEnv("REDIS_URL", ""),
		RedisTLSInsecure:               strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:                 getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:               int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		GeneratorWebhookURL:            getEnv("GENERATOR_WEBHOOK_URL", ""),
		GeneratorAPIKey:                getEnv("GENERATOR_API_KEY", ""),
		GeneratorTimeout:               mustDuration(getEnv("GENERATOR_TIMEOUT", "10s")),
		PhoneDefaultRegion:             strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "IT")),
		TemplateSeedFile:               getEnv("TEMPLATE_SEED_FILE", ""),
		ExportAPIKey:                   getEnv("EXPORT_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.IsSMTPEnabled() && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	if cfg.AttachmentMaxBytes <= 0 {
		return nil, fmt.Errorf("ATTACHMENT_MAX_BYTES must be a positive integer")
	}
	if cfg.AsynqConcurrency <= 0 {
		cfg.AsynqConcurrency = 5
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinSessionTokenBytes es la entropía mínima de un token de sesión emitido
const MinSessionTokenBytes = 48

// Config representa la configuración del servicio
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Inngest   InngestConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Email     EmailConfig
	Supabase  SupabaseConfig
	Company   CompanyConfig
}

// ServerConfig representa la configuración del servidor HTTP
type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string

	// Proxies cuyo X-Forwarded-For se acepta; vacío usa la IP de la conexión
	TrustedProxies []string
	// Header de plataforma con la IP del cliente, por ejemplo CF-Connecting-IP
	TrustedPlatform string
}

// DatabaseConfig representa la configuración de la base de datos
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig representa la configuración de Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// InngestConfig representa la configuración de Inngest
type InngestConfig struct {
	EventKey   string
	SigningKey string
	AppID      string
	Dev        bool
}

// AuthConfig representa la configuración de sesiones de clientes
type AuthConfig struct {
	SessionTTL        time.Duration
	SessionTokenBytes int
}

// RateLimitConfig representa el límite de intentos de verificación por IP
type RateLimitConfig struct {
	VerifyAttempts int
	Window         time.Duration
}

// LoggingConfig representa la configuración de logging
type LoggingConfig struct {
	Level  string
	Format string
}

// EmailConfig representa la configuración de email
type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
}

// SupabaseConfig representa el acceso S3 al storage de Supabase
type SupabaseConfig struct {
	StorageEndpoint string
	StorageRegion   string
	AccessKeyID     string
	SecretAccessKey string
	InvoiceBucket   string
}

// CompanyConfig representa los datos de marca impresos en las facturas
type CompanyConfig struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	Email        string
	Phone        string
	Website      string
	BrandColor   string
}

// Load carga la configuración desde variables de entorno
func Load() (*Config, error) {
	// El archivo .env es opcional
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("SERVER_PORT", "8081"),
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Env:     getEnv("SERVER_ENV", "development"),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8081"),

			TrustedProxies:  getEnvAsSlice("TRUSTED_PROXIES"),
			TrustedPlatform: getEnv("TRUSTED_PLATFORM", ""),
		},
		Database: DatabaseConfig{
			Host:        getEnv("PGHOST", "localhost"),
			Port:        getEnv("PGPORT", "5432"),
			User:        getEnv("PGUSER", "postgres"),
			Password:    getEnv("PGPASSWORD", "postgres"),
			Name:        getEnv("PGDATABASE", "postgres"),
			SSLMode:     getEnv("DB_SSLMODE", "require"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Inngest: InngestConfig{
			EventKey:   getEnv("INNGEST_EVENT_KEY", ""),
			SigningKey: getEnv("INNGEST_SIGNING_KEY", ""),
			AppID:      getEnv("INNGEST_APP_ID", "agency-functions"),
			Dev:        getEnvAsBool("INNGEST_DEV", true),
		},
		Auth: AuthConfig{
			SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SessionTokenBytes: getEnvAsInt("SESSION_TOKEN_BYTES", MinSessionTokenBytes),
		},
		RateLimit: RateLimitConfig{
			VerifyAttempts: getEnvAsInt("RATE_LIMIT_VERIFY_ATTEMPTS", 10),
			Window:         getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM", "billing@cethos.com"),
		},
		Supabase: SupabaseConfig{
			StorageEndpoint: getEnv("SUPABASE_STORAGE_ENDPOINT", ""),
			StorageRegion:   getEnv("SUPABASE_STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("SUPABASE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("SUPABASE_SECRET_ACCESS_KEY", ""),
			InvoiceBucket:   getEnv("SUPABASE_INVOICE_BUCKET", "invoices"),
		},
		Company: CompanyConfig{
			Name:         getEnv("COMPANY_NAME", "CETHOS Translation Services"),
			AddressLine1: getEnv("COMPANY_ADDRESS_LINE1", ""),
			AddressLine2: getEnv("COMPANY_ADDRESS_LINE2", ""),
			Email:        getEnv("COMPANY_EMAIL", "billing@cethos.com"),
			Phone:        getEnv("COMPANY_PHONE", ""),
			Website:      getEnv("COMPANY_WEBSITE", "www.cethos.com"),
			BrandColor:   getEnv("COMPANY_BRAND_COLOR", "#0C2340"),
		},
	}

	if config.Auth.SessionTokenBytes < MinSessionTokenBytes {
		config.Auth.SessionTokenBytes = MinSessionTokenBytes
	}

	return config, nil
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt obtiene una variable de entorno como entero
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool obtiene una variable de entorno como booleano
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsSlice obtiene una lista separada por comas, sin elementos vacíos
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsDuration obtiene una variable de entorno como duración
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// IsDevelopment retorna true si el entorno es de desarrollo
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction retorna true si el entorno es de producción
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// StorageEnabled indica si hay credenciales para el storage de Supabase
func (c *Config) StorageEnabled() bool {
	return c.Supabase.StorageEndpoint != "" && c.Supabase.AccessKeyID != "" && c.Supabase.SecretAccessKey != ""
}

// GetDSN retorna la cadena de conexión a la base de datos
func (c *Config) GetDSN() string {
	return "host=" + c.Database.Host +
		" port=" + c.Database.Port +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" sslmode=" + c.Database.SSLMode
}

// GetRedisAddr retorna la dirección de Redis
func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

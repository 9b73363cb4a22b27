package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	PaymentModeSandbox = "sandbox"
	PaymentModeLive    = "live"

	AuthProviderDescope = "descope"
	AuthProviderLocal   = "local"
)

type Settings struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
	LogLevel        string
	LogFormat       string

	DatabaseDSN    string
	ReplicaDSNs    []string
	RunMigrations  bool
	SeedCatalog    bool
	GenerateModels bool
	AutoMaxProcs   bool
	RateLimitRPS   float64
	RateLimitBurst int
	SiteBaseURL    string
	APIBaseURL     string
	SessionCookie  string
	SessionTTL     time.Duration
	AdminEmails    []string
	ContactEmails  []string

	Payment   PaymentSettings
	Auth      AuthSettings
	Email     EmailSettings
	SMS       SMSSettings
	Storage   StorageSettings
	AWSRegion string
}

type PaymentSettings struct {
	StoreID        string
	StorePassword  string
	Mode           string
	Timeout        time.Duration
	DefaultCity    string
	DefaultCountry string
	DefaultAddress string
	DefaultPhone   string
}

type AuthSettings struct {
	Provider         string
	DescopeProjectID string
	DescopeMgmtKey   string
	AdminRole        string
	JWTSecret        string
	PasswordResetURL string
}

type EmailSettings struct {
	APIKey    string
	FromEmail string
}

type SMSSettings struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (s SMSSettings) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

type StorageSettings struct {
	Bucket        string
	PublicBaseURL string
}

// Load turns the resolved configuration map into typed settings. Unknown
// PAYMENT_MODE or AUTH_PROVIDER values are rejected.
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Port:            GetString(c, "PORT", "8080"),
		ReadTimeout:     time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:    time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:     time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		LogLevel:        strings.ToLower(GetString(c, "LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(GetString(c, "LOG_FORMAT", "json")),
		DatabaseDSN:     databaseDSN(c),
		ReplicaDSNs:     GetList(c, "DB_REPLICA_DSNS"),
		RunMigrations:   GetBool(c, "RUN_MIGRATIONS", true),
		SeedCatalog:     GetBool(c, "SEED_CATALOG", false),
		GenerateModels:  GetBool(c, "GENERATE_MODELS", false),
		AutoMaxProcs:    GetBool(c, "AUTO_MAX_PROCS_ENABLED", true),
		RateLimitRPS:    GetFloat(c, "RATE_LIMIT_RPS", 1),
		RateLimitBurst:  GetInt(c, "RATE_LIMIT_BURST", 5),
		SiteBaseURL:     strings.TrimRight(GetString(c, "SITE_BASE_URL", "http://localhost:3000"), "/"),
		APIBaseURL:      strings.TrimRight(GetString(c, "API_BASE_URL", "http://localhost:8080"), "/"),
		SessionCookie:   GetString(c, "SESSION_COOKIE", "devengine_session"),
		SessionTTL:      time.Duration(GetInt(c, "JWT_TTL_MINUTES", 60*24)) * time.Minute,
		AdminEmails:     GetList(c, "ADMIN_EMAILS"),
		ContactEmails:   GetList(c, "CONTACT_RECIPIENTS"),
		AWSRegion:       GetString(c, "AWS_REGION", "ap-south-1"),
		Payment: PaymentSettings{
			StoreID:        GetString(c, "STORE_ID", ""),
			StorePassword:  GetString(c, "STORE_PASSWORD", ""),
			Mode:           strings.ToLower(GetString(c, "PAYMENT_MODE", PaymentModeSandbox)),
			Timeout:        time.Duration(GetInt(c, "PAYMENT_TIMEOUT_SECONDS", 20)) * time.Second,
			DefaultCity:    GetString(c, "CUSTOMER_DEFAULT_CITY", "Dhaka"),
			DefaultCountry: GetString(c, "CUSTOMER_DEFAULT_COUNTRY", "Bangladesh"),
			DefaultAddress: GetString(c, "CUSTOMER_DEFAULT_ADDRESS", "Dhaka"),
			DefaultPhone:   GetString(c, "CUSTOMER_DEFAULT_PHONE", "01700000000"),
		},
		Auth: AuthSettings{
			Provider:         strings.ToLower(GetString(c, "AUTH_PROVIDER", AuthProviderLocal)),
			DescopeProjectID: GetString(c, "DESCOPE_PROJECT_ID", ""),
			DescopeMgmtKey:   GetString(c, "DESCOPE_MANAGEMENT_KEY", ""),
			AdminRole:        GetString(c, "DESCOPE_ADMIN_ROLE", "admin"),
			JWTSecret:        GetString(c, "JWT_SECRET", ""),
			PasswordResetURL: GetString(c, "PASSWORD_RESET_URL", ""),
		},
		Email: EmailSettings{
			APIKey:    GetString(c, "RESEND_API_KEY", ""),
			FromEmail: GetString(c, "RESEND_FROM_EMAIL", "DevEngine <noreply@devengine.dev>"),
		},
		SMS: SMSSettings{
			AccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
			AuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
			FromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
		},
		Storage: StorageSettings{
			Bucket:        GetString(c, "S3_BUCKET", ""),
			PublicBaseURL: strings.TrimRight(GetString(c, "S3_PUBLIC_BASE_URL", ""), "/"),
		},
	}

	if s.Auth.PasswordResetURL == "" {
		s.Auth.PasswordResetURL = s.SiteBaseURL + "/reset-password"
	}

	switch s.Payment.Mode {
	case PaymentModeSandbox, PaymentModeLive:
	default:
		return Settings{}, fmt.Errorf("PAYMENT_MODE must be %q or %q, got %q", PaymentModeSandbox, PaymentModeLive, s.Payment.Mode)
	}

	switch s.Auth.Provider {
	case AuthProviderLocal:
		if s.Auth.JWTSecret == "" {
			return Settings{}, fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=%s", AuthProviderLocal)
		}
	case AuthProviderDescope:
		if s.Auth.DescopeProjectID == "" {
			return Settings{}, fmt.Errorf("DESCOPE_PROJECT_ID is required when AUTH_PROVIDER=%s", AuthProviderDescope)
		}
	default:
		return Settings{}, fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthProviderDescope, AuthProviderLocal, s.Auth.Provider)
	}

	return s, nil
}

func databaseDSN(c map[string]string) string {
	if dsn := GetString(c, "DB_DSN", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(c, "DB_HOST", "localhost"),
		GetString(c, "DB_USER", "postgres"),
		GetString(c, "DB_PASSWORD", ""),
		GetString(c, "DB_NAME", "devengine"),
		GetString(c, "DB_PORT", "5432"),
		GetString(c, "DB_SSLMODE", "require"),
	)
}

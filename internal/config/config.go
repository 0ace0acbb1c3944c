package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validDrivers = map[string]bool{
	"postgres": true,
	"mongo":    true,
}

const minSessionSecretLen = 32

type Config struct {
	ServerPort        string
	AppEnv            string
	AuthDevMode       bool
	LogLevel          string
	DefaultProfileURL string
	DB                DBConfig
	Session           SessionConfig
	OAuth             OAuthConfig
	RateLimit         RateLimitConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !validDrivers[c.DB.Driver] {
		return fmt.Errorf("invalid DB_DRIVER %q: must be postgres or mongo", c.DB.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.AppEnv != "local" && len(c.Session.Secret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes in %s environment", minSessionSecretLen, c.AppEnv)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.OAuth.Timeout <= 0 {
		return fmt.Errorf("OAUTH_TIMEOUT must be positive")
	}
	if _, err := url.ParseRequestURI(c.OAuth.ClientURL); err != nil {
		return fmt.Errorf("invalid CLIENT_URL %q: %w", c.OAuth.ClientURL, err)
	}
	if c.OAuth.Cognito.AppClientID != "" && c.OAuth.Cognito.Domain == "" {
		return fmt.Errorf("COGNITO_DOMAIN is required when COGNITO_APP_CLIENT_ID is set")
	}
	return nil
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
	MongoURI string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type SessionConfig struct {
	Secret       string
	Issuer       string
	TTL          time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// ProviderConfig holds the OAuth client registration for one SNS provider.
// A provider with an empty ClientID is not registered.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (p ProviderConfig) Enabled() bool {
	return p.ClientID != ""
}

type CognitoConfig struct {
	Region          string
	Domain          string
	AppClientID     string
	AppClientSecret string
	RedirectURL     string
}

func (c CognitoConfig) Enabled() bool {
	return c.AppClientID != ""
}

type OAuthConfig struct {
	ClientURL string
	Timeout   time.Duration
	Kakao     ProviderConfig
	Google    ProviderConfig
	Cognito   CognitoConfig
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func Load() Config {
	return Config{
		ServerPort:        envOrDefault("SERVER_PORT", "8080"),
		AppEnv:            envOrDefault("APP_ENV", "local"),
		AuthDevMode:       strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		DefaultProfileURL: envOrDefault("PROFILE_URL", "https://static.ag3.dev/images/default-profile.png"),
		DB: DBConfig{
			Driver:   envOrDefault("DB_DRIVER", "postgres"),
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "ag3"),
			Password: envOrDefault("DB_PASSWORD", "ag3"),
			Name:     envOrDefault("DB_NAME", "ag3"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
			Migrate:  strings.EqualFold(envOrDefault("DB_MIGRATE", "true"), "true"),
			MongoURI: envOrDefault("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		},
		Session: SessionConfig{
			Secret:       os.Getenv("SESSION_SECRET"),
			Issuer:       envOrDefault("SESSION_ISSUER", "ag3-api"),
			TTL:          durationOrDefault("SESSION_TTL", 7*24*time.Hour),
			CookieName:   envOrDefault("COOKIE_NAME", "AG3_JWT"),
			CookieDomain: os.Getenv("COOKIE_DOMAIN"),
			CookieSecure: strings.EqualFold(envOrDefault("COOKIE_SECURE", "false"), "true"),
		},
		OAuth: OAuthConfig{
			ClientURL: envOrDefault("CLIENT_URL", "http://localhost:3000"),
			Timeout:   durationOrDefault("OAUTH_TIMEOUT", 10*time.Second),
			Kakao: ProviderConfig{
				ClientID:     os.Getenv("KAKAO_CLIENT_ID"),
				ClientSecret: os.Getenv("KAKAO_SECRET_ID"),
				RedirectURL:  envOrDefault("KAKAO_AUTH_REDIRECT_URL", "http://localhost:8080/auth/kakao/callback"),
			},
			Google: ProviderConfig{
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_SECRET_ID"),
				RedirectURL:  envOrDefault("GOOGLE_AUTH_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
			},
			Cognito: CognitoConfig{
				Region:          envOrDefault("COGNITO_REGION", "ap-northeast-2"),
				Domain:          os.Getenv("COGNITO_DOMAIN"),
				AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
				AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
				RedirectURL:     envOrDefault("COGNITO_AUTH_REDIRECT_URL", "http://localhost:8080/auth/cognito/callback"),
			},
		},
		RateLimit: RateLimitConfig{
			RPS:   floatOrDefault("RATE_LIMIT_RPS", 1),
			Burst: intOrDefault("RATE_LIMIT_BURST", 10),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// durationOrDefault falls back to defaultVal when the variable is unset or
// not a valid time.Duration; Validate rejects non-positive results.
func durationOrDefault(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func intOrDefault(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func floatOrDefault(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultVal
}

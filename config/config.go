package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDeadlineLayout = "2006-01-02T15:04:05"

// JudgeCredential is one configured judge login.
type JudgeCredential struct {
	ID           string
	Name         string
	PasswordHash string
}

// R2Config holds Cloudflare R2 credentials. Storage is optional; Enabled
// reports whether all fields were supplied.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != "" && c.PublicBaseURL != ""
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	AdminUsername     string
	AdminDisplayName  string
	AdminPasswordHash string
	Judges            []JudgeCredential

	SettingsURL    string
	SubmissionsURL string
	IntakeURL      string
	RemoteTimeout  time.Duration
	SyncInterval   time.Duration

	Location        *time.Location
	DefaultDeadline time.Time

	CORSAllowedOrigins []string
	R2                 R2Config
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := parsePort(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminUser == "" || adminHash == "" {
		return nil, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD_HASH environment variables must be set")
	}

	judges, err := ParseJudges(os.Getenv("JUDGES"))
	if err != nil {
		return nil, err
	}

	remoteTimeout, err := time.ParseDuration(getEnvOrDefault("REMOTE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMOTE_TIMEOUT environment variable: %w", err)
	}
	syncInterval, err := time.ParseDuration(getEnvOrDefault("SYNC_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL environment variable: %w", err)
	}
	if syncInterval < time.Minute {
		return nil, fmt.Errorf("SYNC_INTERVAL must be at least 1m, got %s", syncInterval)
	}

	loc, err := time.LoadLocation(getEnvOrDefault("CONTEST_TIMEZONE", "Africa/Cairo"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONTEST_TIMEZONE environment variable: %w", err)
	}
	deadline, err := time.ParseInLocation(defaultDeadlineLayout, getEnvOrDefault("DEFAULT_DEADLINE", "2026-06-30T23:59:59"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_DEADLINE environment variable: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		JWTSecretKey:       jwtKey,
		ServerPort:         port,
		AdminUsername:      adminUser,
		AdminDisplayName:   getEnvOrDefault("ADMIN_DISPLAY_NAME", adminUser),
		AdminPasswordHash:  adminHash,
		Judges:             judges,
		SettingsURL:        os.Getenv("SETTINGS_URL"),
		SubmissionsURL:     os.Getenv("SUBMISSIONS_URL"),
		IntakeURL:          os.Getenv("INTAKE_URL"),
		RemoteTimeout:      remoteTimeout,
		SyncInterval:       syncInterval,
		Location:           loc,
		DefaultDeadline:    deadline,
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	return cfg, nil
}

// ParseJudges reads the JUDGES variable: comma-separated "id|name|bcrypt-hash"
// entries. An empty value means no judge accounts besides the admin.
func ParseJudges(raw string) ([]JudgeCredential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var judges []JudgeCredential
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid JUDGES entry %q: expected id|name|hash", entry)
		}
		if seen[parts[0]] {
			return nil, fmt.Errorf("duplicate judge id %q in JUDGES", parts[0])
		}
		seen[parts[0]] = true
		judges = append(judges, JudgeCredential{ID: parts[0], Name: parts[1], PasswordHash: parts[2]})
	}
	return judges, nil
}

func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	return port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

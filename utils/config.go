// utils/config.go
package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"safeblues-backend/models"

	"github.com/joho/godotenv"
)

// DensityMethod picks the smoothing used for the population curve.
type DensityMethod string

const (
	DensityGamma DensityMethod = "gamma"
	DensityKDE   DensityMethod = "kde"
)

// Config is read once at startup and handed to every service constructor.
type Config struct {
	DatabaseURL    string
	Port           string
	AllowedOrigins []string

	Phase         models.Phase
	DensityMethod DensityMethod
	WriteRetries  uint64
	SessionTTL    time.Duration

	AdminEmail    string
	AdminPassword string

	Storage        StorageConfig
	ExportInterval time.Duration
}

// StorageConfig points at the R2 (S3-compatible) export bucket.
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Enabled reports whether enough is set to talk to the bucket.
func (s StorageConfig) Enabled() bool {
	return s.AccountID != "" && s.AccessKeyID != "" && s.AccessKeySecret != "" && s.Bucket != ""
}

const defaultOrigin = "https://participant.safeblues.org"

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from a lookup function.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DatabaseURL:   getenv("DATABASE_URL"),
		Port:          getenv("PORT"),
		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		Storage: StorageConfig{
			AccountID:       getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      getenv("CDN_BASE_URL"),
		},
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	origins := getenv("ALLOWED_ORIGINS")
	if origins == "" {
		log.Printf("⚠️  ALLOWED_ORIGINS not set, using default: %s", defaultOrigin)
		origins = defaultOrigin
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	phaseNum := 1
	if v := getenv("CURRENT_PHASE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CURRENT_PHASE %q: %w", v, err)
		}
		phaseNum = n
	}
	phase, err := models.ParsePhase(phaseNum)
	if err != nil {
		return cfg, err
	}
	cfg.Phase = phase

	switch m := DensityMethod(strings.ToLower(getenv("DENSITY_METHOD"))); m {
	case "":
		cfg.DensityMethod = DensityGamma
	case DensityGamma, DensityKDE:
		cfg.DensityMethod = m
	default:
		return cfg, fmt.Errorf("invalid DENSITY_METHOD %q (want gamma or kde)", m)
	}

	cfg.WriteRetries = 3
	if v := getenv("WRITE_RETRIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return cfg, fmt.Errorf("invalid WRITE_RETRIES %q: %w", v, err)
		}
		cfg.WriteRetries = n
	}

	cfg.SessionTTL = 24 * time.Hour
	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q", v)
		}
		cfg.SessionTTL = d
	}

	if v := getenv("EXPORT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid EXPORT_INTERVAL %q", v)
		}
		cfg.ExportInterval = d
	}

	return cfg, nil
}

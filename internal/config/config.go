package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is loaded once at startup. Required fields are checked in Load so a
// misconfigured deployment fails immediately instead of deep inside a
// capture request.
type Config struct {
	Addr  string
	DBDSN string

	PayPal  PayPal
	Admin   Admin
	Storage Storage
	Mail    Mail
}

type PayPal struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	Timeout      time.Duration
	MaxRetries   int
}

type Admin struct {
	Email        string
	PasswordHash string // bcrypt
}

type Storage struct {
	Driver       string // local | s3
	LocalDir     string
	LocalURL     string
	S3Region     string
	S3Bucket     string
	S3Prefix     string
	S3PublicBase string
}

type Mail struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func Load() (Config, error) {
	cfg := Config{
		Addr:  envOr("ADDR", ":8080"),
		DBDSN: os.Getenv("DB_DSN"),
		PayPal: PayPal{
			ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET_KEY"),
			APIBaseURL:   strings.TrimRight(os.Getenv("PAYPAL_API_BASE_URL"), "/"),
			Timeout:      30 * time.Second,
			MaxRetries:   3,
		},
		Admin: Admin{
			Email:        os.Getenv("ADMIN_EMAIL"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Storage: Storage{
			Driver:       envOr("STORAGE_DRIVER", "local"),
			LocalDir:     envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURL:     envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:     os.Getenv("S3_REGION"),
			S3Bucket:     os.Getenv("S3_BUCKET"),
			S3Prefix:     envOr("S3_PREFIX", "uploads"),
			S3PublicBase: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		Mail: Mail{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("EMAIL_FROM", "no-reply@nycarchivalsociety.org"),
			FromName: envOr("EMAIL_FROM_NAME", "New York Archival Society"),
		},
	}

	var missing []string
	if cfg.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.PayPal.ClientID == "" {
		missing = append(missing, "PAYPAL_CLIENT_ID")
	}
	if cfg.PayPal.ClientSecret == "" {
		missing = append(missing, "PAYPAL_CLIENT_SECRET_KEY")
	}
	if cfg.PayPal.APIBaseURL == "" {
		missing = append(missing, "PAYPAL_API_BASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Storage.Driver == "s3" {
		if cfg.Storage.S3Region == "" || cfg.Storage.S3Bucket == "" || cfg.Storage.S3PublicBase == "" {
			return Config{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
	}

	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/nyas?parseTime=true")
	t.Setenv("PAYPAL_CLIENT_ID", "client-id")
	t.Setenv("PAYPAL_CLIENT_SECRET_KEY", "client-secret")
	t.Setenv("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com/")
}

func TestLoad(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Addr)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("default storage driver = %q", cfg.Storage.Driver)
	}
	// trailing slash stripped so URL building stays predictable
	if strings.HasSuffix(cfg.PayPal.APIBaseURL, "/") {
		t.Errorf("APIBaseURL not trimmed: %q", cfg.PayPal.APIBaseURL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYPAL_CLIENT_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without PAYPAL_CLIENT_ID")
	}
	if !strings.Contains(err.Error(), "PAYPAL_CLIENT_ID") {
		t.Errorf("error should name the missing key: %v", err)
	}
}

func TestLoadS3RequiresBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_REGION", "us-east-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail with incomplete S3 config")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
gateway:
  terminal_key: TestTerminal
  secret: secret
app:
  base_url: https://shop.example
`

func TestLoad(t *testing.T) {
	t.Run("Given a minimal file When loading Then defaults are applied", func(t *testing.T) {
		cfg, err := Load(writeFile(t, minimalConfig))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HTTPServer.Addr() != "127.0.0.1:5000" {
			t.Errorf("http addr = %s", cfg.HTTPServer.Addr())
		}
		if cfg.Gateway.Timeout != 10*time.Second || !cfg.Gateway.VerifyNotification {
			t.Errorf("unexpected gateway defaults: %+v", cfg.Gateway)
		}
		if cfg.App.OrderIDFloor != 100 || cfg.App.PendingTTL != 24*time.Hour {
			t.Errorf("unexpected app defaults: %+v", cfg.App)
		}
		if cfg.KafkaService.Brokers() != nil {
			t.Errorf("brokers should be empty without a kafka host")
		}
	})

	t.Run("Given env overrides When loading Then env wins", func(t *testing.T) {
		t.Setenv("PAY_HTTP_PORT", "8081")
		t.Setenv("PAY_KAFKA_HOST", "kafka")

		cfg, err := Load(writeFile(t, minimalConfig))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HTTPServer.Port != "8081" {
			t.Errorf("port = %s", cfg.HTTPServer.Port)
		}
		if b := cfg.KafkaService.Brokers(); len(b) != 1 || b[0] != "kafka:9092" {
			t.Errorf("brokers = %v", b)
		}
	})

	t.Run("Given missing credentials When loading Then error", func(t *testing.T) {
		if _, err := Load(writeFile(t, "app:\n  base_url: https://shop.example\n")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("Given missing base url When loading Then error", func(t *testing.T) {
		if _, err := Load(writeFile(t, "gateway:\n  terminal_key: k\n  secret: s\n")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("Given no file When loading Then error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
}

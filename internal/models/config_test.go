package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreBackend != "file" || cfg.OutputFormat != "console" {
		t.Errorf("store %q output %q", cfg.StoreBackend, cfg.OutputFormat)
	}
	if cfg.InitialTables != 5 || cfg.HTTPPort != "8080" || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DefaultOrderType != OrderTypeDineIn || cfg.DefaultPaymentMethod != PaymentMethodCash {
		t.Errorf("sale defaults %q %q", cfg.DefaultOrderType, cfg.DefaultPaymentMethod)
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
store_backend: postgres
output_format: parquet
initial_tables: 12
shutdown_timeout: 3s
database:
  host: db.internal
  dbname: pos
cloud_storage:
  provider: s3
  bucket_name: pos-events
`)
	t.Setenv("TABLEPOS_HTTP_PORT", "9090")

	cfg, err := LoadConfig(viper.New(), path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreBackend != "postgres" || cfg.OutputFormat != "parquet" || cfg.InitialTables != 12 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("env override ignored: port %q", cfg.HTTPPort)
	}
	if cfg.CloudStorage.BucketName != "pos-events" {
		t.Errorf("cloud storage = %+v", cfg.CloudStorage)
	}
	dsn := cfg.Database.DSN()
	if !strings.Contains(dsn, "host=db.internal") || !strings.Contains(dsn, "dbname=pos") || !strings.Contains(dsn, "port=5432") {
		t.Errorf("dsn = %q", dsn)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"store":    "store_backend: sqlite\n",
		"output":   "output_format: xml\n",
		"provider": "cloud_storage:\n  provider: gcs\n",
		"tables":   "initial_tables: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(viper.New(), writeConfig(t, body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

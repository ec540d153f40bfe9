package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.ListenAddr != ":8080" {
			t.Errorf("Expected ListenAddr to be :8080, got %s", cfg.ListenAddr)
		}
		if cfg.MaxUploadMB != 32 {
			t.Errorf("Expected MaxUploadMB to be 32, got %d", cfg.MaxUploadMB)
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			ListenAddr:  ":9090",
			MaxUploadMB: 64,
		}
		processConfigDefaults(&cfg)

		if cfg.ListenAddr != ":9090" {
			t.Errorf("Expected ListenAddr to stay :9090, got %s", cfg.ListenAddr)
		}
		if cfg.MaxUploadMB != 64 {
			t.Errorf("Expected MaxUploadMB to stay 64, got %d", cfg.MaxUploadMB)
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing data dir", func(t *testing.T) {
		cfg := Config{DataDir: ""}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for missing DataDir")
		}
	})

	t.Run("creates directories", func(t *testing.T) {
		dataDir := filepath.Join(tmpDir, "data")
		cfg := Config{DataDir: dataDir}
		err := validateAndEnsureDirectories(&cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if _, err := os.Stat(dataDir); os.IsNotExist(err) {
			t.Error("Data directory was not created")
		}
		if _, err := os.Stat(filepath.Join(dataDir, "uploads")); os.IsNotExist(err) {
			t.Error("Uploads directory was not created")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("LISTEN_ADDR", ":7070")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ListenAddr != ":7070" {
		t.Errorf("Expected ListenAddr :7070, got %s", cfg.ListenAddr)
	}
	if cfg.DataDir != dataDir {
		t.Errorf("Expected DataDir %s, got %s", dataDir, cfg.DataDir)
	}
	if cfg.DatabasePath != filepath.Join(dataDir, "modhost.db") {
		t.Errorf("Expected DatabasePath under DataDir, got %s", cfg.DatabasePath)
	}
	if cfg.UploadsDir() != filepath.Join(dataDir, "uploads") {
		t.Errorf("Expected UploadsDir under DataDir, got %s", cfg.UploadsDir())
	}
}

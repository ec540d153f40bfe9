package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	ListenAddr   string `mapstructure:"LISTEN_ADDR"`
	DataDir      string `mapstructure:"DATA_DIR"`
	LogPath      string `mapstructure:"LOG_PATH"`
	MaxUploadMB  int64  `mapstructure:"MAX_UPLOAD_MB"`
	DatabasePath string `mapstructure:"-"` // Not from env, derived from DataDir
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"listen_addr":   "LISTEN_ADDR",
		"data_dir":      "DATA_DIR",
		"log_path":      "LOG_PATH",
		"max_upload_mb": "MAX_UPLOAD_MB",
	} {
		if bindErr := viper.BindEnv(key, env); bindErr != nil {
			slog.Warn("Unable to bind env var", "key", env, "error", bindErr)
		}
	}

	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	// --- Post-unmarshal processing and defaults ---

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Derive DatabasePath (place it in the data dir for portability)
	config.DatabasePath = filepath.Join(config.DataDir, "modhost.db")

	return config, nil
}

func processConfigDefaults(config *Config) {
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 32
	}
}

func validateAndEnsureDirectories(config *Config) error {
	// Validate DataDir - needs to be set
	if config.DataDir == "" {
		slog.Error("DATA_DIR is not set")
		return fmt.Errorf("DATA_DIR is required")
	}
	// Ensure DataDir exists, create if not
	if _, err := os.Stat(config.DataDir); os.IsNotExist(err) {
		slog.Info("Data directory does not exist, creating it", "path", config.DataDir)
		if err := os.MkdirAll(config.DataDir, 0755); err != nil {
			slog.Error("Failed to create data directory", "path", config.DataDir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check data directory", "path", config.DataDir, "error", err)
		return err
	}

	// Ensure the uploads subdirectory exists
	uploadsDir := filepath.Join(config.DataDir, "uploads")
	if _, err := os.Stat(uploadsDir); os.IsNotExist(err) {
		slog.Info("Uploads directory does not exist, creating it", "path", uploadsDir)
		if err := os.MkdirAll(uploadsDir, 0755); err != nil {
			slog.Error("Failed to create uploads directory", "path", uploadsDir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check uploads directory", "path", uploadsDir, "error", err)
		return err
	}

	return nil
}

// UploadsDir returns the blob storage root under the data directory.
func (c Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"` // debug, info, warn, error
	ChromePath     string        `mapstructure:"chrome_path"`
	// Development server
	DevServerAddr string `mapstructure:"devserver_addr"`
}

var AppConfig *Config

// Keys lists every key accepted by Set.
var Keys = []string{"api_base_url", "poll_interval", "request_timeout", "log_level", "chrome_path", "devserver_addr"}

// Dir returns the directory holding the config file and local database.
// JOBPORTAL_HOME overrides the default of ~/.jobportal.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("JOBPORTAL_HOME")); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".jobportal"), nil
}

// Initialize loads or creates the configuration file
func Initialize() error {
	// A .env in the working directory may supply JOBPORTAL_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	configDir, err := Dir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.Reset()
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("JOBPORTAL")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("api_base_url", "http://localhost:5000/api")
	viper.SetDefault("poll_interval", "5s")
	viper.SetDefault("request_timeout", "10s")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("chrome_path", "")
	viper.SetDefault("devserver_addr", ":5000")

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	AppConfig = cfg

	return nil
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api_base_url must be set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# Job Portal Configuration
# Backend API root (all endpoints live under it)
api_base_url: http://localhost:5000/api

# Dashboard refresh period and per-request timeout
poll_interval: 5s
request_timeout: 10s

# debug, info, warn, error
log_level: warn

# Chrome/Chromium binary for PDF reports (empty = search PATH)
chrome_path: ""

# Listen address for 'jobportal devserver'
devserver_addr: ":5000"
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	dir, _ := Dir()
	return filepath.Join(dir, "config.yaml")
}

// DatabasePath returns the path to the local client database
func DatabasePath() string {
	dir, _ := Dir()
	return filepath.Join(dir, "jobportal.db")
}

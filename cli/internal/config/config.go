package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	IndentWidth   int
	MaxLineLength int
	Debug         bool
	NoColor       bool
}

// LoadConfig loads configuration from config files, environment variables,
// and .env files, in ascending priority.
func LoadConfig() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set config file paths
	viper.SetConfigName(".validatetest")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "validatetest"))

	// Set environment variable prefix
	viper.SetEnvPrefix("VALIDATETEST")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("indent_width", 4)
	viper.SetDefault("max_line_length", 120)
	viper.SetDefault("debug", false)
	viper.SetDefault("no_color", false)

	// Try to read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		IndentWidth:   viper.GetInt("indent_width"),
		MaxLineLength: viper.GetInt("max_line_length"),
		Debug:         viper.GetBool("debug"),
		NoColor:       viper.GetBool("no_color"),
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("indent_width", cfg.IndentWidth)
	viper.Set("max_line_length", cfg.MaxLineLength)
	viper.Set("debug", cfg.Debug)
	viper.Set("no_color", cfg.NoColor)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "validatetest")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, ".validatetest.yaml")
	return viper.WriteConfigAs(configFile)
}

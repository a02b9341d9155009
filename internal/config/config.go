package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/qi-principal/Package-machine/internal/common"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.2
	DefaultBatchSize   = 10
)

// DefaultAllowedExtensions is the stock extension allow-list applied
// when the user has not configured one. An empty list admits all files.
var DefaultAllowedExtensions = []string{
	".txt", ".doc", ".docx", ".pdf",
	".jpg", ".jpeg", ".png", ".gif",
	".mp3", ".mp4", ".zip", ".rar",
}

// Config carries the settings the pipeline reads. It is assembled once
// in the CLI layer and passed explicitly into pipeline constructors;
// the pipeline never writes configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	TargetDir         string
	DatabasePath      string
	AllowedExtensions []string
	Temperature       float64
	BatchSize         int
}

// FromViper projects the loaded viper state into a Config, applying
// defaults for everything the user left unset.
func FromViper() Config {
	cfg := Config{
		APIKey:            viper.GetString("classifier.api_key"),
		BaseURL:           viper.GetString("classifier.base_url"),
		Model:             viper.GetString("classifier.model"),
		Temperature:       viper.GetFloat64("classifier.temperature"),
		TargetDir:         ExpandPath(viper.GetString("organize.target_dir")),
		BatchSize:         viper.GetInt("organize.batch_size"),
		AllowedExtensions: viper.GetStringSlice("organize.allowed_extensions"),
		DatabasePath:      ExpandPath(viper.GetString("database.path")),
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.AllowedExtensions == nil {
		c.AllowedExtensions = DefaultAllowedExtensions
	}
	if c.DatabasePath == "" {
		home, err := filepath.Abs(".")
		if err == nil {
			c.DatabasePath = filepath.Join(home, "categories.db")
		} else {
			c.DatabasePath = "categories.db"
		}
	}
	return c
}

// Validate checks the settings required before a classification run.
// The API key check happens here, before any network call is made.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: classifier.api_key", common.ErrMissingConfig)
	}
	if c.TargetDir == "" {
		return fmt.Errorf("%w: organize.target_dir", common.ErrMissingConfig)
	}
	return nil
}

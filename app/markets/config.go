package markets

import (
	"github.com/joefazee/sportsbook/models"
)

// ConfigKey registers the markets Config in the dependency container
const ConfigKey = "markets_config"

// Config represents the configuration for selection extraction
type Config struct {
	LegacyRulesEnabled   bool `env:"MARKETS_LEGACY_RULES" env-default:"true"`
	MaxDescriptionLength int  `env:"MARKETS_MAX_DESCRIPTION_LENGTH" env-default:"1000"`
}

// Validate validates the markets configuration
func (c *Config) Validate() error {
	if c.MaxDescriptionLength < 0 {
		return models.ErrInvalidDescriptionLength
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		LegacyRulesEnabled:   true,
		MaxDescriptionLength: 1000,
	}
}

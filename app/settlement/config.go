package settlement

import (
	"time"

	"github.com/joefazee/sportsbook/internal/validator"
	"github.com/joefazee/sportsbook/models"
)

// Config represents the configuration for the settlement module
type Config struct {
	CurrencyCode    string        `env:"SETTLEMENT_CURRENCY" env-default:"NGN"`
	LegacyMatching  bool          `env:"SETTLEMENT_LEGACY_MATCHING" env-default:"true"`
	ReportTTL       time.Duration `env:"SETTLEMENT_REPORT_TTL" env-default:"24h"`
	RunClaimTTL     time.Duration `env:"SETTLEMENT_RUN_CLAIM_TTL" env-default:"2m"`
	ParlayBatchSize int           `env:"SETTLEMENT_PARLAY_BATCH_SIZE" env-default:"200"`
	SweepInterval   time.Duration `env:"SETTLEMENT_SWEEP_INTERVAL" env-default:"5m"`
}

func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{validator.IsCurrencyCode(c.CurrencyCode), models.ErrInvalidCurrencyCode},
		{c.ReportTTL > 0, models.ErrInvalidCacheTTL},
		{c.RunClaimTTL > 0, models.ErrInvalidCacheTTL},
		{c.ParlayBatchSize > 0, models.ErrInvalidBatchSize},
		{c.SweepInterval > 0, models.ErrInvalidBatchSize},
	}

	for _, check := range checks {
		if !check.ok {
			return check.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		CurrencyCode:    "NGN",
		LegacyMatching:  true,
		ReportTTL:       24 * time.Hour,
		RunClaimTTL:     2 * time.Minute,
		ParlayBatchSize: 200,
		SweepInterval:   5 * time.Minute,
	}
}

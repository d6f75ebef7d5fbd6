package oracle

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/models"
)

// Config holds the operator-tunable policy knobs the adapter enforces on
// every reading, independent of market-level OracleConfig.
type Config struct {
	MaxStaleness      time.Duration   `env:"ORACLE_MAX_STALENESS" default:"60s"`
	MaxConfidenceRate decimal.Decimal `env:"ORACLE_MAX_CONFIDENCE_RATE"`
	MinorUnitExponent int32           `env:"ORACLE_MINOR_UNIT_EXPONENT" default:"6"`
	ReflectorBaseURL  string          `env:"ORACLE_REFLECTOR_URL"`
	PythBaseURL       string          `env:"ORACLE_PYTH_URL"`
	HTTPTimeout       time.Duration   `env:"ORACLE_HTTP_TIMEOUT" default:"5s"`
}

// Validate checks the adapter policy knobs.
func (c *Config) Validate() error {
	if c.MaxStaleness <= 0 {
		return models.ErrInvalidOracleConfig
	}
	if c.MaxConfidenceRate.IsNegative() {
		return models.ErrInvalidOracleConfig
	}
	if c.HTTPTimeout <= 0 {
		return models.ErrInvalidOracleConfig
	}
	return nil
}

// GetDefaultConfig returns the default adapter policy.
func GetDefaultConfig() *Config {
	return &Config{
		MaxStaleness:      60 * time.Second,
		MaxConfidenceRate: decimal.NewFromFloat(0.05), // 5%
		MinorUnitExponent: 6,
		HTTPTimeout:       5 * time.Second,
	}
}

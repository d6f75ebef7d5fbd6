package governance

import (
	"time"

	"github.com/joefazee/foresight/models"
)

// Config holds the operator-tunable policy knobs for admin governance.
type Config struct {
	ActionTTL time.Duration `env:"GOVERNANCE_ACTION_TTL" default:"168h"`
}

// Validate checks the governance policy knobs.
func (c *Config) Validate() error {
	if c.ActionTTL <= 0 {
		return models.ErrInvalidResolutionTimeout
	}
	return nil
}

// GetDefaultConfig returns the default governance policy: a 7-day TTL on
// pending admin actions.
func GetDefaultConfig() *Config {
	return &Config{ActionTTL: 7 * 24 * time.Hour}
}

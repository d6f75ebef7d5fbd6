package app

import (
	"github.com/joefazee/foresight/app/core"
	"github.com/joefazee/foresight/app/database"
	"github.com/joefazee/foresight/app/governance"
	"github.com/joefazee/foresight/app/oracle"
	"github.com/joefazee/foresight/app/user"
	"github.com/joefazee/foresight/internal/nexus"
)

type Config struct {
	DB         database.Config
	User       user.Config
	Core       core.Config
	Oracle     oracle.Config
	Governance governance.Config

	AppHost string `env:"APP_HOST" default:"localhost"`
	AppPort string `env:"APP_PORT" default:"8080"`
	Env     string `env:"APP_ENV" default:"development"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}

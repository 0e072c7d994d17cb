package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_VOX_GROUP picks a scratch group so test traffic never mixes
	// with a real session on the same machine.
	GroupAddress string        `envconfig:"E2E_VOX_GROUP" default:"239.87.86.90"`
	ChatPort     int           `envconfig:"E2E_VOX_PORT" default:"12726"`
	WaitTimeout  time.Duration `envconfig:"E2E_WAIT_TIMEOUT" default:"3s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// HUB_ADDR is the host:port of a running hub; the suites skip when empty
	HubAddr  string `envconfig:"HUB_ADDR"`
	BasePath string `envconfig:"HUB_BASE_PATH" default:"/api/v1/chats"`
	// NATS_URL enables the scenarios publishing on the bus
	NatsURL   string `envconfig:"NATS_URL"`
	BusStream string `envconfig:"BUS_STREAM" default:"HUB_EVENTS"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

package main

import (
	"fmt"
	"time"
)

// Config carries the network parameters every participant must agree on
// out of band (group, port) plus local tuning. Defaults are compiled in;
// the environment only overrides them.
type Config struct {
	GroupAddress    string        `env:"VOX_GROUP,default=239.87.86.88" validate:"required,ip4_addr"`
	ChatPort        int           `env:"VOX_PORT,default=2223" validate:"gte=1,lte=65535"`
	MulticastTTL    int           `env:"VOX_TTL,default=1" validate:"gte=0,lte=255"`
	ReadBufferSize  int           `env:"VOX_READ_BUFFER,default=8192" validate:"gte=2048"`
	EventBufferSize int           `env:"VOX_EVENT_BUFFER,default=256" validate:"gte=1"`
	HistoryLimit    int           `env:"VOX_HISTORY_LIMIT,default=64" validate:"gte=1"`
	PeerTimeout     time.Duration `env:"VOX_PEER_TIMEOUT,default=5m"`
	RestartInterval time.Duration `env:"VOX_RESTART_INTERVAL,default=200ms"`
	Username        string        `env:"VOX_USERNAME"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	CensorEnabled   bool          `env:"VOX_CENSOR,default=true"`
	CharReplacement string        `env:"VOX_CENSOR_CHAR,default=*" validate:"required"`
	ShowIntro       bool          `env:"VOX_INTRO,default=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("VOX_CENSOR_CHAR must be a single character, got %q", str)
	}
	return r[0], nil
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// Which suit lands where on a fresh deal. The default keeps the
	// historical three-suit deal: clubs never enter play.
	DealPlayer1Suit string `env:"DEAL_PLAYER1_SUIT" envDefault:"hearts"`
	DealPlayer2Suit string `env:"DEAL_PLAYER2_SUIT" envDefault:"spades"`
	DealDeckSuit    string `env:"DEAL_DECK_SUIT" envDefault:"diamonds"`

	// MatchIdleTimeout of zero disables the idle-match janitor.
	MatchIdleTimeout time.Duration `env:"MATCH_IDLE_TIMEOUT" envDefault:"0"`
	JanitorInterval  time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

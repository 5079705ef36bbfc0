package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN"`
	DBDSN    string `env:"DB_DSN" envDefault:"chatshop.db"`
	MediaDir string `env:"MEDIA_DIR" envDefault:"./media"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`
	LogFile  string `env:"LOG_FILE" envDefault:"./chatshop.log"`

	// Operator side: where payment claims and paid notifications go, and the
	// bcrypt hash of the key guarding the admin HTTP surface.
	OperatorChatID  int64  `env:"OPERATOR_CHAT_ID"`
	OperatorKeyHash string `env:"OPERATOR_KEY_HASH"`

	// Interaction tuning.
	PageSize       int           `env:"PAGE_SIZE" envDefault:"5"`
	MediaBatchSize int           `env:"MEDIA_BATCH_SIZE" envDefault:"10"`
	SendRetries    int           `env:"SEND_RETRIES" envDefault:"3"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"2s"`
	GroupDelay     time.Duration `env:"GROUP_DELAY" envDefault:"1s"`
	SendTimeout    time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
	QueueSize      int           `env:"QUEUE_SIZE" envDefault:"64"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	log.Printf("[config] DB_DSN=%s MEDIA_DIR=%s HTTP_ADDR=%s PAGE_SIZE=%d BATCH=%d",
		cfg.DBDSN, cfg.MediaDir, cfg.HTTPAddr, cfg.PageSize, cfg.MediaBatchSize)
	return cfg, nil
}

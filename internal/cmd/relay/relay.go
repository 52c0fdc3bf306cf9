// Package relay parses relay command flags and runs the websocket hub.
package relay

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/easelworks/easel/internal/platform/config"
	"github.com/easelworks/easel/internal/platform/otel"
	server "github.com/easelworks/easel/internal/services/relay/app"
)

// Config holds relay command configuration.
type Config struct {
	Addr string `env:"EASEL_RELAY_ADDR" envDefault:"localhost:3055"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "relay listen address")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the relay hub.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "relay")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return server.Run(ctx, server.Config{HTTPAddr: cfg.Addr})
}

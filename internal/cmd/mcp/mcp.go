// Package mcp parses MCP command flags and runs the stdio server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/easelworks/easel/internal/platform/config"
	"github.com/easelworks/easel/internal/platform/otel"
	"github.com/easelworks/easel/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	RelayURL     string        `env:"EASEL_RELAY_URL"     envDefault:"http://localhost:3055"`
	Channel      string        `env:"EASEL_RELAY_CHANNEL"`
	SessionDir   string        `env:"EASEL_SESSION_DIR"`
	ReplyTimeout time.Duration `env:"EASEL_REPLY_TIMEOUT" envDefault:"30s"`
	Transport    string        `env:"EASEL_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.RelayURL, "relay-url", cfg.RelayURL, "relay HTTP base URL")
	fs.StringVar(&cfg.Channel, "channel", cfg.Channel, "relay channel to join at startup")
	fs.StringVar(&cfg.SessionDir, "session-dir", cfg.SessionDir, "session storage directory")
	fs.DurationVar(&cfg.ReplyTimeout, "reply-timeout", cfg.ReplyTimeout, "per-command canvas reply timeout")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
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

	sessionDir := cfg.SessionDir
	if sessionDir == "" {
		sessionDir, err = defaultSessionDir()
		if err != nil {
			return err
		}
	}

	return service.Run(ctx, service.Config{
		RelayURL:     cfg.RelayURL,
		Channel:      cfg.Channel,
		SessionDir:   sessionDir,
		ReplyTimeout: cfg.ReplyTimeout,
		Transport:    service.TransportKind(cfg.Transport),
	})
}

// defaultSessionDir places session records under the user's home
// directory when no explicit directory is configured.
func defaultSessionDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".easel", "sessions"), nil
}

// Package mythra parses program command flags and runs the HTTP server.
package mythra

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Ah-Riz/mythra-program/internal/platform/config"
	"github.com/Ah-Riz/mythra-program/internal/platform/otel"
	"github.com/Ah-Riz/mythra-program/internal/program/app"
)

// Config holds program command configuration.
type Config struct {
	HTTPAddr string `env:"MYTHRA_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath   string `env:"MYTHRA_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the program server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mythra")
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

	return app.Run(ctx, cfg.HTTPAddr, cfg.DBPath)
}

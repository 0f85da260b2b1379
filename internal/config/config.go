// Package config defines docmoduled's startup configuration, read
// from flags with environment-variable fallbacks, following
// crdtserver's flat Config struct and flag.* setup in its main.go.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds every value docmoduled needs to start serving.
type Config struct {
	ListenAddr string
	LogLevel   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReplogStreamPrefix string
}

// Default returns the configuration used when neither a flag nor an
// environment variable overrides it: no Redis address, meaning the
// in-memory notify and replog implementations are used instead.
func Default() Config {
	return Config{
		ListenAddr:         ":6400",
		LogLevel:           "info",
		ReplogStreamPrefix: "docmoduled:replog:",
	}
}

// Parse builds a Config from command-line flags, each defaulting to
// its corresponding environment variable (and, failing that, to
// Default's value) the way crdtserver's main.go reads REDIS_ADDR etc.
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("docmoduled", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddr, "listen", envOr("DOCMODULED_LISTEN", cfg.ListenAddr), "TCP address to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("DOCMODULED_LOG_LEVEL", cfg.LogLevel), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", envOr("REDIS_ADDR", cfg.RedisAddr), "Redis address; empty disables Redis-backed notify/replog")
	fs.StringVar(&cfg.RedisPassword, "redis-password", envOr("REDIS_PASSWORD", cfg.RedisPassword), "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", envOrInt("REDIS_DB", cfg.RedisDB), "Redis logical database index")
	fs.StringVar(&cfg.ReplogStreamPrefix, "replog-prefix", envOr("DOCMODULED_REPLOG_PREFIX", cfg.ReplogStreamPrefix), "key prefix for replication log streams")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

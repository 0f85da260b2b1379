// Command docmoduled is the reference host for the document core: a
// line-protocol TCP server standing in for the Redis Modules C ABI
// (unreachable from pure Go), wiring internal/config,
// internal/logging, internal/keyspace, internal/engine,
// internal/notify, internal/replog and internal/hostadapter together
// the way crdtserver/main.go wires its own collaborators.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/michelp/redis-automerge/internal/config"
	"github.com/michelp/redis-automerge/internal/engine"
	"github.com/michelp/redis-automerge/internal/hostadapter"
	"github.com/michelp/redis-automerge/internal/keyspace"
	"github.com/michelp/redis-automerge/internal/logging"
	"github.com/michelp/redis-automerge/internal/notify"
	"github.com/michelp/redis-automerge/internal/replog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	logger := logging.MustNew(cfg.LogLevel)
	defer logger.Sync()

	notifier, log, err := buildCollaborators(cfg, logger)
	if err != nil {
		return err
	}
	defer notifier.Close()
	defer log.Close()

	adapter := hostadapter.New(keyspace.New(), engine.NewRDocEngine(), notifier, log, logger)
	srv := NewServer(cfg.ListenAddr, adapter, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		logger.Info("shutting down")
		return srv.Shutdown()
	}
}

// buildCollaborators wires Redis-backed notify/replog when
// cfg.RedisAddr is set, and the in-memory implementations otherwise —
// the single-process fallback crdtserver's own UseIPFSLite-style
// feature switch plays for its heavier peer-to-peer backend.
func buildCollaborators(cfg config.Config, logger *zap.Logger) (notify.Notifier, replog.Log, error) {
	if cfg.RedisAddr == "" {
		logger.Info("no redis address configured, using in-memory notify/replog")
		return notify.NewMemoryNotifier(), replog.NewMemoryLog(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	logger.Info("using redis-backed notify/replog", zap.String("addr", cfg.RedisAddr))
	return notify.NewRedisNotifier(client), replog.NewRedisStreamsLog(client, cfg.ReplogStreamPrefix), nil
}

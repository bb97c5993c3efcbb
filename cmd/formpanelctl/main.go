// Package main is the entry point for the formpanelctl CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sqliteadapter "github.com/ericfisherdev/formpanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/formpanel/internal/adapter/driving/cli"
	"github.com/ericfisherdev/formpanel/internal/config"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Dependencies{
		Logger:     logger,
		LogSecrets: cfg.LogSecrets,
		OpenLog:    captureLogOpener(cfg.DBPath, cfg.SecretKey),
		Version:    version,
	})
	return cli.Execute(ctx, root, os.Stderr)
}

// captureLogOpener opens the SQLite capture log, applying migrations first.
func captureLogOpener(dbPath string, key []byte) cli.LogOpener {
	return func(ctx context.Context) (cli.CaptureLog, func() error, error) {
		db, err := sqliteadapter.NewDB(ctx, dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqliteadapter.NewCaptureRepo(db, key), db.Close, nil
	}
}

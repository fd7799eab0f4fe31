package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/app"
	"github.com/vladislavdragonenkov/elmorders/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}
}

// run разбирает флаги, читает конфигурацию и запускает сервис до отмены ctx.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("order-service", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", "", "path to config file (default: ./config.yaml if present)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(stdout, version.String())
		return err
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	entry := logger.WithField("component", "app")

	entry.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg, entry); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	entry.Info("OrderService остановлен")
	return nil
}

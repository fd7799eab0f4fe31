package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/app"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// migrator описывает методы postgres.Store, которые использует CLI.
type migrator interface {
	MigrateUp(ctx context.Context, steps int) error
	MigrateDown(ctx context.Context, steps int) error
	Status(ctx context.Context) (postgres.MigrationStatus, error)
	Close() error
}

var openStore = func(ctx context.Context, dsn string) (migrator, error) {
	return postgres.Open(ctx, dsn)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stdout)
	direction := fs.String("direction", "up", "migration direction: up|down|status")
	steps := fs.Int("steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	dsn := fs.String("dsn", "", "PostgreSQL DSN (fallback: postgres.dsn from config / OMS_POSTGRES_DSN)")
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*dsn) == "" {
		cfg, err := app.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		*dsn = cfg.PostgresDSN
	}
	if strings.TrimSpace(*dsn) == "" {
		return fmt.Errorf("OMS_POSTGRES_DSN (or -dsn) is required")
	}

	mode := strings.ToLower(strings.TrimSpace(*direction))
	if mode != "up" && mode != "down" && mode != "status" {
		return fmt.Errorf("unsupported direction: %s (use up|down|status)", *direction)
	}

	store, err := openStore(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	switch mode {
	case "up":
		if err := store.MigrateUp(ctx, *steps); err != nil {
			return fmt.Errorf("migrate up failed: %w", err)
		}
	case "down":
		if err := store.MigrateDown(ctx, *steps); err != nil {
			return fmt.Errorf("migrate down failed: %w", err)
		}
	}

	st, err := store.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "migrate %s ok: version=%d applied=%d pending=%d\n", mode, st.Version, st.Applied, st.Pending())
	return err
}

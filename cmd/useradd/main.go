package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/elmorders/internal/app"
	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	"github.com/vladislavdragonenkov/elmorders/internal/service/usersvc"
	"github.com/vladislavdragonenkov/elmorders/internal/storage/postgres"
)

const (
	defaultTimeout = 15 * time.Second
	passwordEnv    = "OMS_USERADD_PASSWORD"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// userStore описывает часть postgres.Store, нужную для создания пользователя.
type userStore interface {
	Users() domain.UserRepository
	Close() error
}

type pgUserStore struct {
	*postgres.Store
}

func (s pgUserStore) Users() domain.UserRepository {
	return postgres.NewUserRepository(s.Store)
}

var openStore = func(ctx context.Context, dsn string) (userStore, error) {
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pgUserStore{Store: store}, nil
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(stdout)
	username := fs.String("username", "", "login of the new user")
	password := fs.String("password", "", "plain password (fallback: "+passwordEnv+")")
	authorities := fs.String("authorities", "USER", "comma-separated authorities, e.g. ADMIN,USER")
	disabled := fs.Bool("disabled", false, "create the account disabled")
	dsn := fs.String("dsn", "", "PostgreSQL DSN (fallback: postgres.dsn from config / OMS_POSTGRES_DSN)")
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		*password = getenv(passwordEnv)
	}
	user, err := usersvc.NewUser(*username, *password, strings.Split(*authorities, ","), !*disabled, bcrypt.DefaultCost)
	if err != nil {
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
		return errors.New("OMS_POSTGRES_DSN (or -dsn) is required")
	}

	store, err := openStore(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	if err := store.Users().Save(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return fmt.Errorf("user %q already exists", user.Username)
		}
		return fmt.Errorf("save user: %w", err)
	}

	_, err = fmt.Fprintf(stdout, "user created: id=%d username=%s authorities=%s\n",
		user.ID, user.Username, strings.Join(user.AuthorityNames(), ","))
	return err
}

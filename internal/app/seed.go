package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	"github.com/vladislavdragonenkov/elmorders/internal/service/usersvc"
)

const seedPasswordCost = bcrypt.DefaultCost

type seedUser struct {
	username    string
	password    string
	authorities []string
}

// parseSeedUser разбирает запись "username:password:ROLE|ROLE". Пароль может
// содержать двоеточия: имя берётся до первого, роли после последнего.
func parseSeedUser(entry string) (seedUser, error) {
	first := strings.Index(entry, ":")
	last := strings.LastIndex(entry, ":")
	if first < 0 || first == last {
		return seedUser{}, fmt.Errorf("entry %q must look like username:password:ROLE|ROLE", redactSeed(entry))
	}

	seed := seedUser{
		username: strings.TrimSpace(entry[:first]),
		password: entry[first+1 : last],
	}
	if seed.username == "" {
		return seedUser{}, fmt.Errorf("entry %q: %w", redactSeed(entry), domain.ErrUsernameRequired)
	}
	if len(seed.password) < usersvc.MinPasswordLength {
		return seedUser{}, fmt.Errorf("user %s: %w", seed.username, usersvc.ErrPasswordTooShort)
	}
	for _, role := range strings.Split(entry[last+1:], "|") {
		if role = strings.TrimSpace(role); role != "" {
			seed.authorities = append(seed.authorities, role)
		}
	}
	return seed, nil
}

// redactSeed оставляет от записи только имя, чтобы пароль не попал в ошибки.
func redactSeed(entry string) string {
	if i := strings.Index(entry, ":"); i >= 0 {
		return entry[:i] + ":***"
	}
	return entry
}

// seedUsers создаёт учётные записи из конфигурации в пустом хранилище.
func seedUsers(ctx context.Context, repo domain.UserRepository, entries []string, cost int, logger *log.Entry) error {
	for _, entry := range entries {
		seed, err := parseSeedUser(entry)
		if err != nil {
			return err
		}
		user, err := usersvc.NewUser(seed.username, seed.password, seed.authorities, true, cost)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", seed.username, err)
		}
		if err := repo.Save(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.username, err)
		}
		logger.WithFields(log.Fields{
			"username":    user.Username,
			"authorities": user.AuthorityNames(),
		}).Info("seeded memory user")
	}
	return nil
}

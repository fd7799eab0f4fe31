// Package usersvc — доступ к учётным записям: поиск пользователей по имени
// для подсистемы аутентификации и сборка новых учётных записей.
package usersvc

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

const (
	OpGetUserWithAuthorities = "get_user_with_authorities_by_username"
	OpGetUserByUsername      = "get_user_by_username"
)

// Metrics учитывает операции поиска пользователей.
type Metrics interface {
	ObserveOperation(operation string, err error, duration time.Duration)
}

// Lookup — read-only доступ к пользователям для подсистемы аутентификации.
type Lookup struct {
	repo    domain.UserRepository
	tx      domain.Transactor
	metrics Metrics
	logger  *log.Entry
}

// NewLookup создаёт Lookup. metrics может быть nil.
func NewLookup(repo domain.UserRepository, tx domain.Transactor, metrics Metrics, logger *log.Entry) *Lookup {
	if logger == nil {
		logger = log.New().WithField("component", "user-lookup")
	}
	return &Lookup{repo: repo, tx: tx, metrics: metrics, logger: logger}
}

// GetUserWithAuthoritiesByUsername возвращает пользователя вместе с ролями.
// found=false, если имени нет; ошибка означает только сбой хранилища.
func (l *Lookup) GetUserWithAuthoritiesByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return l.lookup(ctx, OpGetUserWithAuthorities, username, l.repo.GetUserWithAuthoritiesByUsername)
}

// GetUserByUsername возвращает пользователя без загрузки ролей.
func (l *Lookup) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	return l.lookup(ctx, OpGetUserByUsername, username, l.repo.GetUserByUsername)
}

func (l *Lookup) lookup(
	ctx context.Context,
	op, username string,
	find func(ctx context.Context, username string) (domain.User, bool, error),
) (domain.User, bool, error) {
	var (
		user  domain.User
		found bool
	)
	start := time.Now()
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, found, err = find(ctx, username)
		return err
	})
	if l.metrics != nil {
		l.metrics.ObserveOperation(op, err, time.Since(start))
	}
	if err != nil {
		l.logger.WithError(err).WithField("operation", op).Debug("user lookup failed")
		return domain.User{}, false, err
	}
	return user, found, nil
}

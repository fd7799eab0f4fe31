package usersvc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// MinPasswordLength — минимальная длина пароля новой учётной записи.
const MinPasswordLength = 8

// ErrPasswordTooShort возвращается NewUser для пароля короче MinPasswordLength.
var ErrPasswordTooShort = errors.New("password is too short")

// NewUser проверяет ввод и собирает пользователя с bcrypt-хэшем пароля.
// Имена ролей приводятся к верхнему регистру и нормализуются так же, как их
// хранят репозитории.
func NewUser(username, password string, authorities []string, enabled bool, cost int) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrUsernameRequired
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	roles := make([]domain.Authority, 0, len(authorities))
	for _, name := range authorities {
		roles = append(roles, domain.Authority{Name: strings.ToUpper(name)})
	}

	return domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Enabled:      enabled,
		Authorities:  domain.NormalizeAuthorities(roles),
	}, nil
}

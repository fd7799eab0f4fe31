package domain

import "errors"

var (
	// ErrOrderRequired возвращается хранилищем при попытке сохранить nil-заказ.
	ErrOrderRequired = errors.New("order is required")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserRequired возвращается хранилищем при попытке сохранить nil-пользователя.
	ErrUserRequired = errors.New("user is required")
	// ErrUserNotFound возвращается, если пользователь не найден по идентификатору.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameRequired — пустое имя пользователя при сохранении.
	ErrUsernameRequired = errors.New("username is required")
	// ErrUsernameTaken — имя пользователя уже занято другой учётной записью.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUnknownFilterField — политика фильтрации ссылается на неизвестное поле.
	ErrUnknownFilterField = errors.New("unknown order filter field")
	// ErrProtectedFilterField — поле нельзя скрывать (идентичность и ссылки заказа).
	ErrProtectedFilterField = errors.New("order filter field cannot be redacted")
)

// IsNotFound проверяет, является ли ошибка признаком отсутствующей записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrUserNotFound)
}

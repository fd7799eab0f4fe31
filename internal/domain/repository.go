package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Save вставляет заказ с нулевым ID (и записывает выданный ID обратно)
	// либо обновляет существующий. Для отсутствующего ID возвращает ErrOrderNotFound.
	// Нулевой OrderDate при вставке заменяется текущим временем, при обновлении
	// оставляет сохранённую дату; итоговая дата записывается обратно в order.
	Save(ctx context.Context, order *Order) error
	// FindByID возвращает заказ или ErrOrderNotFound, если его нет.
	FindByID(ctx context.Context, id int64) (Order, error)
	// FindAll возвращает все заказы в порядке хранения.
	FindAll(ctx context.Context) ([]Order, error)
	// DeleteByID удаляет заказ; ErrOrderNotFound, если удалять нечего.
	DeleteByID(ctx context.Context, id int64) error
	// FindAllByCustomerID возвращает заказы с равным customer_id.
	FindAllByCustomerID(ctx context.Context, customerID int64) ([]Order, error)
	// FindAllByBusinessID возвращает заказы с равным business_id.
	FindAllByBusinessID(ctx context.Context, businessID int64) ([]Order, error)
}

// UserRepository описывает хранилище пользователей.
type UserRepository interface {
	// Save вставляет пользователя с нулевым ID либо обновляет существующего.
	// Непустой (не nil) срез Authorities заменяет набор ролей целиком.
	Save(ctx context.Context, user *User) error
	// FindByID возвращает пользователя без ролей или ErrUserNotFound.
	FindByID(ctx context.Context, id int64) (User, error)
	// GetUserWithAuthoritiesByUsername загружает пользователя вместе с ролями
	// одним запросом. found=false, если такого имени нет.
	GetUserWithAuthoritiesByUsername(ctx context.Context, username string) (user User, found bool, err error)
	// GetUserByUsername загружает пользователя без ролей (Authorities == nil).
	GetUserByUsername(ctx context.Context, username string) (user User, found bool, err error)
}

// Transactor задаёт границу транзакции вокруг вызова fn.
//
// Реализация фиксирует транзакцию, если fn вернула nil, и откатывает её при
// ошибке или панике. Ошибка fn возвращается без изменений. Вложенный вызов
// присоединяется к уже открытой транзакции.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

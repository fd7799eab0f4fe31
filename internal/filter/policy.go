// Package filter содержит политику очистки заказов перед выдачей наружу.
//
// Политика — чистая функция Order -> Order: она работает с копией, не
// возвращает ошибок и никогда не трогает ID, CustomerID и BusinessID.
// Набор скрываемых полей задаётся конфигурацией.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// Field — имя поля заказа, которое может скрывать политика.
type Field string

const (
	FieldCreator         Field = "creator"
	FieldUpdater         Field = "updater"
	FieldDeleted         Field = "deleted"
	FieldCreatedAt       Field = "created_at"
	FieldUpdatedAt       Field = "updated_at"
	FieldDeliveryAddress Field = "delivery_address"
)

// DefaultFields — служебные поля аудита, которые по умолчанию не покидают сервис.
var DefaultFields = []string{string(FieldCreator), string(FieldUpdater), string(FieldDeleted)}

var redactors = map[Field]func(o *domain.Order){
	FieldCreator:         func(o *domain.Order) { o.CreatorID = nil },
	FieldUpdater:         func(o *domain.Order) { o.UpdaterID = nil },
	FieldDeleted:         func(o *domain.Order) { o.Deleted = false },
	FieldCreatedAt:       func(o *domain.Order) { o.CreatedAt = time.Time{} },
	FieldUpdatedAt:       func(o *domain.Order) { o.UpdatedAt = time.Time{} },
	FieldDeliveryAddress: func(o *domain.Order) { o.DeliveryAddressID = nil },
}

// Поля, задающие идентичность заказа и его связи.
var protected = map[string]struct{}{
	"id":       {},
	"customer": {},
	"business": {},
}

// Policy скрывает заданный набор полей. Нулевое значение ничего не скрывает.
type Policy struct {
	fields []Field
}

// NewPolicy строит политику из имён полей. Пустые имена и повторы игнорируются.
func NewPolicy(names []string) (Policy, error) {
	seen := make(map[Field]struct{}, len(names))
	fields := make([]Field, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := protected[name]; ok {
			return Policy{}, fmt.Errorf("%w: %s", domain.ErrProtectedFilterField, name)
		}
		field := Field(name)
		if _, ok := redactors[field]; !ok {
			return Policy{}, fmt.Errorf("%w: %s", domain.ErrUnknownFilterField, name)
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return Policy{fields: fields}, nil
}

// Fields возвращает скрываемые поля в отсортированном порядке.
func (p Policy) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Apply возвращает очищенную копию заказа. Указатели копии не связаны со
// входом.
func (p Policy) Apply(order domain.Order) domain.Order {
	order = order.Clone()
	for _, f := range p.fields {
		redactors[f](&order)
	}
	return order
}

// ApplyAll применяет Apply к каждому заказу и возвращает новый срез.
// Для nil на входе возвращается пустой срез.
func (p Policy) ApplyAll(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = p.Apply(o)
	}
	return out
}

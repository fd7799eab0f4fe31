package domain

import "time"

// OrderState описывает стадию заказа в сервисе доставки.
type OrderState int16

const (
	// OrderStateCreated — заказ оформлен, но ещё не оплачен.
	OrderStateCreated OrderState = 0
	// OrderStatePaid — оплата подтверждена.
	OrderStatePaid OrderState = 1
	// OrderStateDelivering — заказ передан курьеру.
	OrderStateDelivering OrderState = 2
	// OrderStateCompleted — заказ доставлен клиенту.
	OrderStateCompleted OrderState = 3
	// OrderStateCanceled — заказ отменён.
	OrderStateCanceled OrderState = 4
)

// Valid сообщает, относится ли значение к известным стадиям.
func (s OrderState) Valid() bool {
	return s >= OrderStateCreated && s <= OrderStateCanceled
}

// Order — заказ клиента в конкретном заведении (business).
//
// ID равен нулю, пока заказ не сохранён: идентификатор выдаёт хранилище.
// CreatorID, UpdaterID и Deleted — служебные поля аудита; наружу они
// отдаются только если политика фильтрации их не скрывает.
type Order struct {
	ID                int64
	CustomerID        int64
	BusinessID        int64
	DeliveryAddressID *int64
	OrderDate         time.Time
	// TotalMinor — сумма заказа в минимальных денежных единицах.
	TotalMinor int64
	State      OrderState

	CreatorID *int64
	UpdaterID *int64
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew сообщает, что заказ ещё не получил идентификатор от хранилища.
func (o *Order) IsNew() bool {
	return o.ID == 0
}

// Clone возвращает копию заказа, не разделяющую указатели с исходным.
func (o Order) Clone() Order {
	o.DeliveryAddressID = cloneInt64(o.DeliveryAddressID)
	o.CreatorID = cloneInt64(o.CreatorID)
	o.UpdaterID = cloneInt64(o.UpdaterID)
	return o
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

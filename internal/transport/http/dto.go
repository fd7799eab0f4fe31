package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// OrderRequest — тело POST /api/orders и PUT /api/orders/:id.
type OrderRequest struct {
	CustomerID        int64      `json:"customer_id" validate:"required,gt=0"`
	BusinessID        int64      `json:"business_id" validate:"required,gt=0"`
	DeliveryAddressID *int64     `json:"delivery_address_id,omitempty" validate:"omitempty,gt=0"`
	OrderDate         *time.Time `json:"order_date,omitempty"`
	TotalMinor        int64      `json:"total_minor" validate:"gte=0"`
	State             int16      `json:"state" validate:"order_state"`
	CreatorID         *int64     `json:"creator_id,omitempty" validate:"omitempty,gt=0"`
	UpdaterID         *int64     `json:"updater_id,omitempty" validate:"omitempty,gt=0"`
	Deleted           bool       `json:"deleted"`
}

// toDomain оставляет OrderDate нулевым, если order_date не передан:
// хранилище подставит текущее время для нового заказа и сохранит прежнюю
// дату при обновлении.
func (r OrderRequest) toDomain(id int64) domain.Order {
	var orderDate time.Time
	if r.OrderDate != nil {
		orderDate = r.OrderDate.UTC()
	}
	return domain.Order{
		ID:                id,
		CustomerID:        r.CustomerID,
		BusinessID:        r.BusinessID,
		DeliveryAddressID: r.DeliveryAddressID,
		OrderDate:         orderDate,
		TotalMinor:        r.TotalMinor,
		State:             domain.OrderState(r.State),
		CreatorID:         r.CreatorID,
		UpdaterID:         r.UpdaterID,
		Deleted:           r.Deleted,
	}
}

// CreateOrderResponse — ответ на создание заказа.
type CreateOrderResponse struct {
	ID int64 `json:"id"`
}

// OrderResponse — заказ после фильтра. Скрытые поля не попадают в JSON.
type OrderResponse struct {
	ID                int64      `json:"id"`
	CustomerID        int64      `json:"customer_id"`
	BusinessID        int64      `json:"business_id"`
	DeliveryAddressID *int64     `json:"delivery_address_id,omitempty"`
	OrderDate         time.Time  `json:"order_date"`
	TotalMinor        int64      `json:"total_minor"`
	State             int16      `json:"state"`
	CreatorID         *int64     `json:"creator_id,omitempty"`
	UpdaterID         *int64     `json:"updater_id,omitempty"`
	Deleted           bool       `json:"deleted,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

func newOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		BusinessID:        o.BusinessID,
		DeliveryAddressID: o.DeliveryAddressID,
		OrderDate:         o.OrderDate,
		TotalMinor:        o.TotalMinor,
		State:             int16(o.State),
		CreatorID:         o.CreatorID,
		UpdaterID:         o.UpdaterID,
		Deleted:           o.Deleted,
		CreatedAt:         optionalTime(o.CreatedAt),
		UpdatedAt:         optionalTime(o.UpdatedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// OrderListResponse оборачивает список заказов.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

func newOrderListResponse(orders []domain.Order) OrderListResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return OrderListResponse{Orders: out}
}

// UserResponse — публичное представление пользователя, без хэша пароля.
// Authorities отсутствует, если роли не запрашивались.
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Enabled     bool      `json:"enabled"`
	Authorities *[]string `json:"authorities,omitempty"`
}

func newUserResponse(u domain.User) UserResponse {
	resp := UserResponse{ID: u.ID, Username: u.Username, Enabled: u.Enabled}
	if names := u.AuthorityNames(); names != nil {
		resp.Authorities = &names
	}
	return resp
}

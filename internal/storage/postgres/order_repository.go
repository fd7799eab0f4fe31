package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

const orderColumns = `id, customer_id, business_id, delivery_address_id, order_date, total_minor,
	state, creator_id, updater_id, deleted, created_at, updated_at`

// orderRow отражает строку таблицы orders для sqlx.
type orderRow struct {
	ID                int64     `db:"id"`
	CustomerID        int64     `db:"customer_id"`
	BusinessID        int64     `db:"business_id"`
	DeliveryAddressID *int64    `db:"delivery_address_id"`
	OrderDate         time.Time `db:"order_date"`
	TotalMinor        int64     `db:"total_minor"`
	State             int16     `db:"state"`
	CreatorID         *int64    `db:"creator_id"`
	UpdaterID         *int64    `db:"updater_id"`
	Deleted           bool      `db:"deleted"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		BusinessID:        r.BusinessID,
		DeliveryAddressID: r.DeliveryAddressID,
		OrderDate:         r.OrderDate,
		TotalMinor:        r.TotalMinor,
		State:             domain.OrderState(r.State),
		CreatorID:         r.CreatorID,
		UpdaterID:         r.UpdaterID,
		Deleted:           r.Deleted,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

type orderRepository struct {
	store *Store
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return domain.ErrOrderRequired
	}
	if order.IsNew() {
		return r.insert(ctx, order)
	}
	return r.update(ctx, order)
}

func (r *orderRepository) insert(ctx context.Context, order *domain.Order) error {
	var stamps struct {
		ID        int64     `db:"id"`
		OrderDate time.Time `db:"order_date"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := r.store.conn(ctx).GetContext(ctx, &stamps, `
		INSERT INTO orders (
			customer_id, business_id, delivery_address_id, order_date, total_minor,
			state, creator_id, updater_id, deleted
		) VALUES ($1,$2,$3,COALESCE($4, NOW()),$5,$6,$7,$8,$9)
		RETURNING id, order_date, created_at, updated_at
	`,
		order.CustomerID, order.BusinessID, order.DeliveryAddressID, nullableTime(order.OrderDate), order.TotalMinor,
		int16(order.State), order.CreatorID, order.UpdaterID, order.Deleted,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	order.ID = stamps.ID
	order.OrderDate = stamps.OrderDate
	order.CreatedAt = stamps.CreatedAt
	order.UpdatedAt = stamps.UpdatedAt
	return nil
}

func (r *orderRepository) update(ctx context.Context, order *domain.Order) error {
	var stamps struct {
		OrderDate time.Time `db:"order_date"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := r.store.conn(ctx).GetContext(ctx, &stamps, `
		UPDATE orders
		SET customer_id = $1,
		    business_id = $2,
		    delivery_address_id = $3,
		    order_date = COALESCE($4, order_date),
		    total_minor = $5,
		    state = $6,
		    creator_id = $7,
		    updater_id = $8,
		    deleted = $9,
		    updated_at = NOW()
		WHERE id = $10
		RETURNING order_date, created_at, updated_at
	`,
		order.CustomerID, order.BusinessID, order.DeliveryAddressID, nullableTime(order.OrderDate), order.TotalMinor,
		int16(order.State), order.CreatorID, order.UpdaterID, order.Deleted, order.ID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("update order: %w", err)
	}

	order.OrderDate = stamps.OrderDate
	order.CreatedAt = stamps.CreatedAt
	order.UpdatedAt = stamps.UpdatedAt
	return nil
}

// nullableTime передаёт нулевое время как NULL: при вставке срабатывает
// NOW(), при обновлении остаётся сохранённая дата.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	var row orderRow
	err := r.store.conn(ctx).GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return row.toDomain(), nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id ASC`)
}

func (r *orderRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.store.conn(ctx).ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.selectOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY id ASC
	`, customerID)
}

func (r *orderRepository) FindAllByBusinessID(ctx context.Context, businessID int64) ([]domain.Order, error) {
	return r.selectOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE business_id = $1
		ORDER BY id ASC
	`, businessID)
}

func (r *orderRepository) selectOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.store.conn(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	return orders, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)

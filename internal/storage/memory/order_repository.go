package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// orderRepositoryInMemory реализует OrderRepository в памяти.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[int64]domain.Order
	nextID int64
	now    func() time.Time
}

// OrderOption настраивает in-memory репозиторий заказов.
type OrderOption func(*orderRepositoryInMemory)

// WithOrderClock подменяет источник времени для created_at/updated_at.
func WithOrderClock(now func() time.Time) OrderOption {
	return func(r *orderRepositoryInMemory) {
		if now != nil {
			r.now = now
		}
	}
}

// WithFirstOrderID задаёт первый выдаваемый идентификатор (по умолчанию 1).
func WithFirstOrderID(id int64) OrderOption {
	return func(r *orderRepositoryInMemory) {
		if id > 0 {
			r.nextID = id
		}
	}
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository(opts ...OrderOption) domain.OrderRepository {
	r := &orderRepositoryInMemory{
		items:  make(map[int64]domain.Order),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save вставляет новый заказ или перезаписывает существующий.
func (r *orderRepositoryInMemory) Save(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if order.IsNew() {
		order.ID = r.nextID
		r.nextID++
		if order.OrderDate.IsZero() {
			order.OrderDate = now
		}
		order.CreatedAt = now
		order.UpdatedAt = now
		r.items[order.ID] = order.Clone()
		return nil
	}

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	// created_at не меняется при обновлении, нулевая дата заказа сохраняет прежнюю.
	if order.OrderDate.IsZero() {
		order.OrderDate = current.OrderDate
	}
	order.CreatedAt = current.CreatedAt
	order.UpdatedAt = now
	r.items[order.ID] = order.Clone()
	return nil
}

// FindByID возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (r *orderRepositoryInMemory) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, func(domain.Order) bool { return true })
}

func (r *orderRepositoryInMemory) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *orderRepositoryInMemory) FindAllByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return r.list(ctx, func(o domain.Order) bool { return o.CustomerID == customerID })
}

func (r *orderRepositoryInMemory) FindAllByBusinessID(ctx context.Context, businessID int64) ([]domain.Order, error) {
	return r.list(ctx, func(o domain.Order) bool { return o.BusinessID == businessID })
}

// list возвращает заказы, удовлетворяющие match, в порядке вставки (по ID).
func (r *orderRepositoryInMemory) list(ctx context.Context, match func(domain.Order) bool) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.items {
		if match(order) {
			result = append(result, order.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)

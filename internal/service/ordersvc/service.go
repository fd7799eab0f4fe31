// Package ordersvc — сервисный слой заказов: каждая операция выполняется в
// одной транзакции, а все заказы, уходящие наружу, проходят через фильтр.
package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
	"github.com/vladislavdragonenkov/elmorders/internal/filter"
)

const (
	OpAddOrder              = "add_order"
	OpUpdateOrder           = "update_order"
	OpGetOrderByID          = "get_order_by_id"
	OpGetOrdersByCustomerID = "get_orders_by_customer_id"
	OpGetOrdersByBusinessID = "get_orders_by_business_id"
)

// Filter очищает заказы перед выдачей. Реализация не должна менять ID,
// а ApplyAll возвращает новый срез, пустой (не nil) для пустого входа.
type Filter interface {
	Apply(order domain.Order) domain.Order
	ApplyAll(orders []domain.Order) []domain.Order
}

// Metrics принимает сведения о выполненных операциях.
type Metrics interface {
	ObserveOperation(operation string, err error, duration time.Duration)
	RecordFiltered(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, error, time.Duration) {}
func (noopMetrics) RecordFiltered(int)                            {}

// Service реализует операции над заказами поверх OrderRepository.
type Service struct {
	repo    domain.OrderRepository
	tx      domain.Transactor
	filter  Filter
	metrics Metrics
	logger  *log.Entry
}

// NewService конструирует сервис. nil filter означает тождественный фильтр,
// nil metrics отключает метрики.
func NewService(
	repo domain.OrderRepository,
	tx domain.Transactor,
	orderFilter Filter,
	metrics Metrics,
	logger *log.Entry,
) *Service {
	if orderFilter == nil {
		orderFilter = filter.Policy{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:    repo,
		tx:      tx,
		filter:  orderFilter,
		metrics: metrics,
		logger:  logger,
	}
}

// AddOrder сохраняет новый заказ. Выданный хранилищем ID записывается в order.
func (s *Service) AddOrder(ctx context.Context, order *domain.Order) error {
	return s.run(ctx, OpAddOrder, func(ctx context.Context) error {
		return s.repo.Save(ctx, order)
	})
}

// UpdateOrder сохраняет изменения заказа. Для несуществующего ID
// возвращается domain.ErrOrderNotFound.
func (s *Service) UpdateOrder(ctx context.Context, order *domain.Order) error {
	return s.run(ctx, OpUpdateOrder, func(ctx context.Context) error {
		return s.repo.Save(ctx, order)
	})
}

// GetOrderByID возвращает отфильтрованный заказ или nil, если его нет.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var result *domain.Order
	err := s.run(ctx, OpGetOrderByID, func(ctx context.Context) error {
		order, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return nil
			}
			return err
		}
		filtered := s.filter.Apply(order)
		s.metrics.RecordFiltered(1)
		result = &filtered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrdersByCustomerID возвращает все заказы клиента, каждый через фильтр.
func (s *Service) GetOrdersByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	return s.list(ctx, OpGetOrdersByCustomerID, func(ctx context.Context) ([]domain.Order, error) {
		return s.repo.FindAllByCustomerID(ctx, customerID)
	})
}

// GetOrdersByBusinessID возвращает все заказы заведения, каждый через фильтр.
func (s *Service) GetOrdersByBusinessID(ctx context.Context, businessID int64) ([]domain.Order, error) {
	return s.list(ctx, OpGetOrdersByBusinessID, func(ctx context.Context) ([]domain.Order, error) {
		return s.repo.FindAllByBusinessID(ctx, businessID)
	})
}

func (s *Service) list(
	ctx context.Context,
	op string,
	fetch func(ctx context.Context) ([]domain.Order, error),
) ([]domain.Order, error) {
	var result []domain.Order
	err := s.run(ctx, op, func(ctx context.Context) error {
		orders, err := fetch(ctx)
		if err != nil {
			return err
		}
		result = s.filter.ApplyAll(orders)
		s.metrics.RecordFiltered(len(result))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// run выполняет fn в одной транзакции и учитывает результат в метриках.
func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			s.metrics.ObserveOperation(op, fmt.Errorf("panic: %v", p), time.Since(start))
			panic(p)
		}
		s.metrics.ObserveOperation(op, err, time.Since(start))

		entry := s.logger.WithFields(log.Fields{
			"operation":   op,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if err != nil {
			entry.WithError(err).Debug("order operation failed")
			return
		}
		entry.Debug("order operation completed")
	}()

	return s.tx.WithinTx(ctx, fn)
}

// Package httpapi — HTTP-транспорт сервиса заказов поверх gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

// OrderService — операции над заказами, которые публикует API.
type OrderService interface {
	AddOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrdersByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error)
	GetOrdersByBusinessID(ctx context.Context, businessID int64) ([]domain.Order, error)
}

// UserLookup ищет пользователей по имени.
type UserLookup interface {
	GetUserWithAuthoritiesByUsername(ctx context.Context, username string) (domain.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error)
}

// RequestObserver учитывает обработанные запросы.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Deps — зависимости роутера. Metrics и Logger необязательны.
type Deps struct {
	Orders  OrderService
	Users   UserLookup
	Metrics RequestObserver
	Logger  *log.Entry
}

// NewRouter собирает gin.Engine со всеми маршрутами API.
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}

	router := gin.New()
	router.Use(requestIDMiddleware(), loggingMiddleware(logger))
	if deps.Metrics != nil {
		router.Use(metricsMiddleware(deps.Metrics))
	}
	router.Use(recoveryMiddleware(logger))

	orders := &orderHandler{service: deps.Orders}
	users := &userHandler{lookup: deps.Users}

	api := router.Group("/api")
	api.POST("/orders", orders.create)
	api.PUT("/orders/:id", orders.update)
	api.GET("/orders/:id", orders.get)
	api.GET("/customers/:id/orders", orders.listByCustomer)
	api.GET("/businesses/:id/orders", orders.listByBusiness)
	api.GET("/users/:username", users.get)

	router.NoRoute(func(c *gin.Context) {
		respondMessage(c, http.StatusNotFound, "route not found")
	})

	return router
}

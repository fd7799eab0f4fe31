package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

type orderHandler struct {
	service OrderService
}

func (h *orderHandler) create(c *gin.Context) {
	req, ok := bindOrderRequest(c)
	if !ok {
		return
	}

	order := req.toDomain(0)
	if err := h.service.AddOrder(c.Request.Context(), &order); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{ID: order.ID})
}

func (h *orderHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := bindOrderRequest(c)
	if !ok {
		return
	}

	order := req.toDomain(id)
	if err := h.service.UpdateOrder(c.Request.Context(), &order); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *orderHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondMessage(c, http.StatusNotFound, "order not found")
		return
	}

	c.JSON(http.StatusOK, newOrderResponse(*order))
}

func (h *orderHandler) listByCustomer(c *gin.Context) {
	h.list(c, h.service.GetOrdersByCustomerID)
}

func (h *orderHandler) listByBusiness(c *gin.Context) {
	h.list(c, h.service.GetOrdersByBusinessID)
}

func (h *orderHandler) list(c *gin.Context, fetch func(ctx context.Context, id int64) ([]domain.Order, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := fetch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newOrderListResponse(orders))
}

type userHandler struct {
	lookup UserLookup
}

func (h *userHandler) get(c *gin.Context) {
	username := c.Param("username")

	withAuthorities := false
	if raw := c.Query("authorities"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondValidation(c, []ValidationError{{Field: "authorities", Rule: "boolean"}})
			return
		}
		withAuthorities = parsed
	}

	find := h.lookup.GetUserByUsername
	if withAuthorities {
		find = h.lookup.GetUserWithAuthoritiesByUsername
	}

	user, found, err := find(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondMessage(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func bindOrderRequest(c *gin.Context) (OrderRequest, bool) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return OrderRequest{}, false
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, details)
		return OrderRequest{}, false
	}
	return req, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, []ValidationError{{Field: "id", Rule: "gt=0"}})
		return 0, false
	}
	return id, true
}

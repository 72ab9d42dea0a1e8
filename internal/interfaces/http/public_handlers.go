package http

import (
	"github.com/gin-gonic/gin"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// PublicOrder handles GET /api/v1/public/orders/:token
func (h *Handlers) PublicOrder(c *gin.Context) {
	order, err := h.services.Order.GetByPublicToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, "public_order", err)
		return
	}
	ok(c, order)
}

// PublicOrderDishes handles GET /api/v1/public/orders/:token/dishes
func (h *Handlers) PublicOrderDishes(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.services.Order.GetByPublicToken(ctx, c.Param("token"))
	if err != nil {
		h.fail(c, "public_order_dishes", err)
		return
	}

	dishes, err := h.services.Dish.ListByOrder(ctx, order.ID)
	if err != nil {
		h.fail(c, "public_order_dishes", err)
		return
	}
	ok(c, dishes)
}

// PublicUpdateStatus handles PATCH /api/v1/public/orders/:token/status
func (h *Handlers) PublicUpdateStatus(c *gin.Context) {
	var req PublicStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.services.Order.UpdateStatusByPublicToken(c.Request.Context(), c.Param("token"), entity.OrderStatus(req.Status))
	if err != nil {
		h.fail(c, "public_update_status", err)
		return
	}
	ok(c, order)
}

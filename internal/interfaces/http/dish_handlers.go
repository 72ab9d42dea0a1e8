package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// ListDishesQuery filters GET /api/v1/dishes. At most one filter applies,
// checked in field order.
type ListDishesQuery struct {
	OrderID string `form:"order_id"`
	ChefID  string `form:"chef_id"`
	Status  string `form:"status" binding:"dish_status"`
}

// ListDishes handles GET /api/v1/dishes
func (h *Handlers) ListDishes(c *gin.Context) {
	var q ListDishesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		dishes []*entity.Dish
		err    error
	)
	switch {
	case q.OrderID != "":
		dishes, err = h.services.Dish.ListByOrder(ctx, q.OrderID)
	case q.ChefID != "":
		dishes, err = h.services.Dish.ListByChef(ctx, q.ChefID)
	case q.Status != "":
		dishes, err = h.services.Dish.ListByStatus(ctx, entity.DishStatus(q.Status))
	default:
		dishes, err = h.services.Dish.List(ctx)
	}
	if err != nil {
		h.fail(c, "list_dishes", err)
		return
	}
	ok(c, dishes)
}

// KitchenBoard handles GET /api/v1/dishes/today
func (h *Handlers) KitchenBoard(c *gin.Context) {
	dishes, err := h.services.Dish.ListToday(c.Request.Context())
	if err != nil {
		h.fail(c, "kitchen_board", err)
		return
	}
	ok(c, dishes)
}

// MyDishes handles GET /api/v1/dishes/mine
func (h *Handlers) MyDishes(c *gin.Context) {
	dishes, err := h.services.Dish.ListByChef(c.Request.Context(), actorOf(c))
	if err != nil {
		h.fail(c, "my_dishes", err)
		return
	}
	ok(c, dishes)
}

// GetDish handles GET /api/v1/dishes/:id
func (h *Handlers) GetDish(c *gin.Context) {
	dish, err := h.services.Dish.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_dish", err)
		return
	}
	ok(c, dish)
}

// DishLogs handles GET /api/v1/dishes/:id/logs
func (h *Handlers) DishLogs(c *gin.Context) {
	logs, err := h.services.Dish.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "dish_logs", err)
		return
	}
	ok(c, logs)
}

// CreateDish handles POST /api/v1/dishes
func (h *Handlers) CreateDish(c *gin.Context) {
	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.Create(c.Request.Context(), req.DishRequest.toInput(req.OrderID), actorOf(c))
	if err != nil {
		h.fail(c, "create_dish", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: dish})
}

// AddDishes handles POST /api/v1/orders/:id/dishes
func (h *Handlers) AddDishes(c *gin.Context) {
	var req AddDishesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	orderID := c.Param("id")
	inputs := make([]service.DishInput, len(req.Dishes))
	for i, d := range req.Dishes {
		inputs[i] = d.toInput(orderID)
	}

	dishes, err := h.services.Dish.AddDishesToOrder(c.Request.Context(), orderID, inputs, actorOf(c))
	if err != nil {
		h.fail(c, "add_dishes", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: dishes})
}

// OrderDishes handles GET /api/v1/orders/:id/dishes
func (h *Handlers) OrderDishes(c *gin.Context) {
	dishes, err := h.services.Dish.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "order_dishes", err)
		return
	}
	ok(c, dishes)
}

// UpdateDishStatus handles PATCH /api/v1/dishes/:id/status
func (h *Handlers) UpdateDishStatus(c *gin.Context) {
	var req UpdateDishStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dish, err := h.services.Dish.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		entity.DishStatus(req.Status),
		req.ConflictReason,
		actorOf(c),
	)
	if err != nil {
		h.fail(c, "update_dish_status", err)
		return
	}
	ok(c, dish)
}

// AssignChef handles PATCH /api/v1/dishes/:id/chef
func (h *Handlers) AssignChef(c *gin.Context) {
	var req AssignChefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	chefID := req.ChefID
	if chefID == "" {
		chefID = actorOf(c)
	}

	dish, err := h.services.Dish.AssignChef(c.Request.Context(), c.Param("id"), chefID)
	if err != nil {
		h.fail(c, "assign_chef", err)
		return
	}
	ok(c, dish)
}

// RemoveDish handles DELETE /api/v1/dishes/:id
func (h *Handlers) RemoveDish(c *gin.Context) {
	if err := h.services.Dish.Remove(c.Request.Context(), c.Param("id"), actorOf(c)); err != nil {
		h.fail(c, "remove_dish", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

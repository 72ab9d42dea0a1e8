package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// Services groups the application services the handlers call
type Services struct {
	Order   service.OrderService
	Dish    service.DishService
	Billing service.BillingService
	Table   service.TableService
	Metrics service.MetricsService
}

// HealthCheck reports whether the backing components are usable
type HealthCheck func(ctx context.Context) (healthy bool, details interface{})

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	health   HealthCheck
	location *time.Location
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, health HealthCheck, loc *time.Location, logger Logger) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		services: services,
		health:   health,
		location: loc,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.health != nil {
		healthy, details := h.health(c.Request.Context())
		resp.Components = details
		if !healthy {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{Success: status == http.StatusOK, Data: resp})
}

// AvailableTables handles GET /api/v1/tables/available
func (h *Handlers) AvailableTables(c *gin.Context) {
	tables, err := h.services.Table.AvailableTables(c.Request.Context())
	if err != nil {
		h.fail(c, "available_tables", err)
		return
	}
	ok(c, tables)
}

// MetricsQuery holds the date range of a metrics request, as YYYY-MM-DD
type MetricsQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func (h *Handlers) metricsRange(c *gin.Context) (time.Time, time.Time, bool) {
	var q MetricsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return time.Time{}, time.Time{}, false
	}

	from, err := time.ParseInLocation(time.DateOnly, q.From, h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "from must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation(time.DateOnly, q.To, h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "to must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Metrics handles GET /api/v1/metrics
func (h *Handlers) Metrics(c *gin.Context) {
	from, to, valid := h.metricsRange(c)
	if !valid {
		return
	}

	m, err := h.services.Metrics.Compute(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "metrics", err)
		return
	}
	ok(c, m)
}

// ExportMetrics handles GET /api/v1/metrics/export
func (h *Handlers) ExportMetrics(c *gin.Context) {
	from, to, valid := h.metricsRange(c)
	if !valid {
		return
	}

	data, contentType, err := h.services.Metrics.Export(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "export_metrics", err)
		return
	}

	filename := fmt.Sprintf("metrics_%s_%s.xlsx", from.Format(time.DateOnly), to.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ListOrdersQuery filters GET /api/v1/orders
type ListOrdersQuery struct {
	WaiterID string `form:"waiter_id"`
	Status   string `form:"status" binding:"order_status"`
}

// ListOrders handles GET /api/v1/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		orders []*entity.Order
		err    error
	)
	switch {
	case q.WaiterID != "":
		orders, err = h.services.Order.ListByWaiter(ctx, q.WaiterID)
	case q.Status != "":
		orders, err = h.services.Order.ListByStatus(ctx, entity.OrderStatus(q.Status))
	default:
		orders, err = h.services.Order.List(ctx)
	}
	if err != nil {
		h.fail(c, "list_orders", err)
		return
	}
	ok(c, orders)
}

// CreateOrder handles POST /api/v1/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	waiterID := req.WaiterID
	if waiterID == "" {
		waiterID = actorOf(c)
	}

	order, err := h.services.Order.Create(c.Request.Context(), service.CreateOrderInput{
		Table:         req.Table,
		People:        req.People,
		WaiterID:      waiterID,
		CustomCharges: toChargeInputs(req.CustomCharges),
	})
	if err != nil {
		h.fail(c, "create_order", err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: order})
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.services.Order.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get_order", err)
		return
	}
	ok(c, order)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.services.Order.UpdateStatus(
		c.Request.Context(),
		c.Param("id"),
		entity.OrderStatus(req.Status),
		entity.PaymentType(req.PaymentType),
		actorOf(c),
	)
	if err != nil {
		h.fail(c, "update_order_status", err)
		return
	}
	ok(c, order)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func (h *Handlers) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.services.Order.Cancel(c.Request.Context(), c.Param("id"), req.Reason, actorOf(c))
	if err != nil {
		h.fail(c, "cancel_order", err)
		return
	}
	ok(c, order)
}

// AddCustomCharge handles POST /api/v1/orders/:id/charges
func (h *Handlers) AddCustomCharge(c *gin.Context) {
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.services.Order.AddCustomCharge(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.fail(c, "add_custom_charge", err)
		return
	}
	ok(c, order)
}

// RemoveCustomCharge handles DELETE /api/v1/orders/:id/charges/:chargeId
func (h *Handlers) RemoveCustomCharge(c *gin.Context) {
	order, err := h.services.Order.RemoveCustomCharge(c.Request.Context(), c.Param("id"), c.Param("chargeId"))
	if err != nil {
		h.fail(c, "remove_custom_charge", err)
		return
	}
	ok(c, order)
}

// RecomputeAccount handles POST /api/v1/orders/:id/account
func (h *Handlers) RecomputeAccount(c *gin.Context) {
	order, err := h.services.Billing.RecomputeAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "recompute_account", err)
		return
	}
	ok(c, order)
}

// ProcessPayment handles POST /api/v1/orders/:id/payment
func (h *Handlers) ProcessPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.services.Billing.ProcessPayment(c.Request.Context(), c.Param("id"), service.PaymentInput{
		PaymentType:   entity.PaymentType(req.PaymentType),
		CardTxNumber:  req.CardTxNumber,
		CashReceived:  req.CashReceived,
		Tip:           req.Tip,
		CustomCharges: toChargeInputs(req.CustomCharges),
		ActorID:       actorOf(c),
	})
	if err != nil {
		h.fail(c, "process_payment", err)
		return
	}
	ok(c, order)
}

// PublicToken handles GET /api/v1/orders/:id/public-token
func (h *Handlers) PublicToken(c *gin.Context) {
	id := c.Param("id")
	token, err := h.services.Order.PublicToken(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "public_token", err)
		return
	}
	ok(c, PublicTokenResponse{OrderID: id, Token: token})
}
